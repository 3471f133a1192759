package transport

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/linkhub"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/models"
	"github.com/Rogue-Bear-Innovations/linkhub-back/internal/service"
)

func (s *HTTPServer) ThemeList(c echo.Context) error {
	themes := linkhub.Themes()
	resp := make([]models.ThemeResp, len(themes))
	for i := range themes {
		resp[i] = models.ThemeToResp(themes[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) ThemeStyle(c echo.Context) error {
	t, ok := linkhub.LookupTheme(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown theme")
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", []byte(t.Stylesheet()))
}

func (s *HTTPServer) UsernameAvailability(c echo.Context) error {
	username, free, err := s.svc.CheckAvailability(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.AvailabilityResp{Username: username, Available: free})
}

func (s *HTTPServer) Me(c echo.Context) error {
	user, _ := UserFromContext(c)
	profiles, err := s.svc.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.MeResp{
		User:     models.UserResp{ID: user.ID, Email: user.Email, Name: user.Name},
		Profiles: models.ProfilesToResp(profiles),
	})
}

func (s *HTTPServer) SignOut(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) ProfileList(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid query param 'limit'")
		}
		limit = n
	}

	var (
		profiles []linkhub.Profile
		err      error
	)
	if userID := c.QueryParam("user_id"); userID != "" {
		profiles, err = s.svc.ListByUser(c.Request().Context(), userID)
		if err == nil && limit > 0 && len(profiles) > limit {
			profiles = profiles[:limit]
		}
	} else {
		profiles, err = s.svc.Recent(c.Request().Context(), limit)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ProfilesToResp(profiles))
}

func (s *HTTPServer) ProfileCreate(c echo.Context) error {
	user, _ := UserFromContext(c)

	req := models.ProfileCreateReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	links := make([]service.NewLink, len(req.Links))
	for i, l := range req.Links {
		links[i] = service.NewLink{Title: l.Title, URL: l.URL, Category: l.Category}
	}
	p, err := s.svc.Create(c.Request().Context(), user.ID, req.Username, req.Theme, links)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, models.ProfileToResp(p))
}

func (s *HTTPServer) ProfileView(c echo.Context) error {
	field, err := linkhub.ParseField(c.QueryParam("field"))
	if err != nil {
		return err
	}
	f := linkhub.Filter{
		Search:   c.QueryParam("search"),
		Field:    field,
		Category: c.QueryParam("category"),
	}

	v, err := s.svc.View(c.Request().Context(), c.Param("username"), viewerID(c), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ProfileViewResp{
		Profile:    models.ProfileToResp(&v.Profile),
		Theme:      models.ThemeToResp(v.Theme),
		Links:      models.LinksToResp(v.Links),
		Groups:     models.GroupsToResp(v.Groups),
		Categories: v.Categories,
		IsOwner:    v.IsOwner,
		ShareURL:   v.ShareURL,
	})
}

func (s *HTTPServer) ProfileShare(c echo.Context) error {
	p, err := s.svc.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ShareResp{URL: s.svc.ShareURL(p.Username)})
}

func (s *HTTPServer) LinkCreate(c echo.Context) error {
	user, _ := UserFromContext(c)

	req := models.LinkReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	l, err := s.svc.AddLink(c.Request().Context(), user.ID, c.Param("username"), newLink(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, models.LinkToResp(l))
}

func (s *HTTPServer) LinkUpdate(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, _ := UserFromContext(c)

	req := models.LinkReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	l, err := s.svc.EditLink(c.Request().Context(), user.ID, c.Param("username"), id, newLink(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.LinkToResp(l))
}

func (s *HTTPServer) LinkDelete(c echo.Context) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, _ := UserFromContext(c)

	if err := s.svc.DeleteLink(c.Request().Context(), user.ID, c.Param("username"), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) LinkReorder(c echo.Context) error {
	user, _ := UserFromContext(c)

	req := models.ReorderReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	links, err := s.svc.Reorder(c.Request().Context(), user.ID, c.Param("username"), req.FromID, req.ToID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.LinksToResp(links))
}

func (s *HTTPServer) ThemeUpdate(c echo.Context) error {
	user, _ := UserFromContext(c)

	req := models.ThemeReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.svc.SetTheme(c.Request().Context(), user.ID, c.Param("username"), req.Theme); err != nil {
		return err
	}
	t, _ := linkhub.LookupTheme(req.Theme)
	return c.JSON(http.StatusOK, models.ThemeToResp(t))
}

func newLink(req models.LinkReq) service.NewLink {
	return service.NewLink{Title: req.Title, URL: req.URL, Category: req.Category}
}
