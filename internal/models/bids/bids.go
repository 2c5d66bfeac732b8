package bids

import (
	"time"

	"etendering/internal/models/section"

	"github.com/google/uuid"
)

type State string

const (
	StateNotExists State = "NotExists"
	StateDraft     State = "Draft"
	StateFinal     State = "Final"
)

// Record is a stored vendor response before its snapshot is decoded.
type Record struct {
	Id               uuid.UUID
	BidId            uuid.UUID
	TenderTemplateId uuid.UUID
	Snapshot         section.Blob
	IsCompleted      bool
	CompletedAt      *time.Time
}

type VendorResponse struct {
	Id               uuid.UUID         `json:"responseId"`
	BidId            uuid.UUID         `json:"vendorBidId"`
	TenderTemplateId uuid.UUID         `json:"tenderTemplateHeaderId"`
	Sections         []section.Section `json:"sections"`
	IsCompleted      bool              `json:"isCompleted"`
	CompletedAt      *time.Time        `json:"completedDateTime"`
	State            State             `json:"state"`
}

// FromRecord decodes the snapshot of r. A snapshot that cannot be read at
// all yields an empty section list.
func FromRecord(r Record) VendorResponse {
	sections := section.Decode([]byte(r.Snapshot))
	if sections == nil {
		sections = make([]section.Section, 0)
	}

	state := StateDraft
	if r.IsCompleted {
		state = StateFinal
	}

	return VendorResponse{
		Id:               r.Id,
		BidId:            r.BidId,
		TenderTemplateId: r.TenderTemplateId,
		Sections:         sections,
		IsCompleted:      r.IsCompleted,
		CompletedAt:      r.CompletedAt,
		State:            state,
	}
}

type AnswersRequest struct {
	Answers     map[uuid.UUID]any `json:"answers" validate:"required"`
	IsCompleted bool              `json:"isCompleted"`
}
