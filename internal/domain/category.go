package domain

import "time"

type Category struct {
	ID           int32     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	ParentID     *int32    `json:"parent_id,omitempty"`
	DisplayOrder int32     `json:"display_order"`
	Active       bool      `json:"active"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}
