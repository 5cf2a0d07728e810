// Package types contains common types used across the application
package types

// Entry is one ranked recommendation. CollaborativeScore is nil when the
// rating matrix offers no signal for the pair.
type Entry struct {
	Rank               int      `json:"rank"`
	FreelancerID       string   `json:"freelancer_id"`
	ContentScore       float64  `json:"content_score"`
	CollaborativeScore *float64 `json:"collaborative_score"`
	BlendedScore       float64  `json:"blended_score"`
}

// HasCollaborative reports whether a collaborative signal contributed.
func (e Entry) HasCollaborative() bool {
	return e.CollaborativeScore != nil
}
