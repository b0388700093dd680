package sprout

import "time"

// CardType identifies how a card was generated from its source note.
// The three parent/group wrapper types exist only as templates for their
// generated children and are never scheduled themselves.
type CardType string

const (
	TypeBasic           CardType = "basic"
	TypeReversed        CardType = "reversed"
	TypeCloze           CardType = "cloze"
	TypeClozeParent     CardType = "cloze-parent"
	TypeOcclusion       CardType = "occlusion"
	TypeOcclusionParent CardType = "occlusion-parent"
	TypeOcclusionGroup  CardType = "occlusion-group"
)

// Schedulable reports whether cards of this type enter review queues.
func (t CardType) Schedulable() bool {
	switch t {
	case TypeClozeParent, TypeOcclusionParent, TypeOcclusionGroup:
		return false
	}
	return true
}

// CardRecord is the identity half of a card, supplied by the storage
// collaborator alongside its CardState. Path is the source note the card
// was generated from; Parent links sibling sub-cards (cloze deletions of
// one sentence, masked regions of one image) to their common origin.
type CardRecord struct {
	ID     string   `json:"id"`
	Type   CardType `json:"type"`
	Path   string   `json:"path"`
	Groups []string `json:"groups,omitempty"`
	Parent string   `json:"parent,omitempty"`
}

// ReviewLog is one recorded review event: which card, how well it was
// recalled, and when. Accumulated logs are the training input for weight
// fitting and the cost input for optimal-retention estimation; DurationMS
// (answer time in milliseconds) is only needed for the latter.
type ReviewLog struct {
	CardID     string    `json:"card_id"`
	Rating     Rating    `json:"rating"`
	ReviewedAt time.Time `json:"reviewed_at"`
	DurationMS *int      `json:"duration_ms,omitempty"`
}
