package linkhub

import "github.com/pkg/errors"

// Move relocates the link fromID to the position currently held by toID. The
// relative order of every other link is kept. The input slice is not modified.
// moved is false when both ids sit at the same index.
func Move(links []Link, fromID, toID int64) (out []Link, moved bool, err error) {
	from := indexOf(links, fromID)
	if from < 0 {
		return nil, false, errors.Wrapf(ErrNotFound, "link %d", fromID)
	}
	to := indexOf(links, toID)
	if to < 0 {
		return nil, false, errors.Wrapf(ErrNotFound, "link %d", toID)
	}
	if from == to {
		return cloneLinks(links), false, nil
	}

	out = make([]Link, 0, len(links))
	out = append(out, links[:from]...)
	out = append(out, links[from+1:]...)

	moving := links[from]
	out = append(out, Link{})
	copy(out[to+1:], out[to:])
	out[to] = moving
	return out, true, nil
}
