package hero

import "fmt"

// Hero is the single record kept by the heroes API. ID is assigned by the remote
// store and is zero for heroes that have not been created yet.
type Hero struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

func (h Hero) String() string {
	return fmt.Sprintf("%d: %s", h.ID, h.Name)
}

// IsNew reports whether the hero has not been assigned an id by a store yet.
func (h Hero) IsNew() bool {
	return h.ID == 0
}
