package contact

import "github.com/AdnanSadiqsb/botnflow-console/internal/api"

// TagSession is the working state of the "manage tags" surface for one
// contact. It exists only while the surface is open and its tag list is
// only ever replaced after the backend confirmed the mutation, so closing
// it never loses committed state.
type TagSession struct {
	ContactID    string
	Tags         []string
	PendingInput string
}

func newTagSession(c api.Contact) *TagSession {
	return &TagSession{
		ContactID: c.ID,
		Tags:      append([]string(nil), c.Tags...),
	}
}
