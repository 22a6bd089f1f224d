package search

import (
	"fmt"
	"time"
)

type status string

type priority int

func (p priority) String() string {
	switch p {
	case 1:
		return "high"
	case 2:
		return "low"
	}
	return fmt.Sprintf("p%d", int(p))
}

type owner struct {
	Name   string
	Region *region
}

type region struct {
	Code string
}

type record struct {
	ID       string
	Title    string
	Status   status
	Rank     int32
	Priority priority
	Created  time.Time
	Owner    *owner
	tags     []string
}

func (r record) Label() string { return "label:" + r.Title }

func (r *record) GetKey() string { return "key:" + r.ID }

func (r record) Tags() []string { return r.tags }

func day(n int) time.Time {
	return time.Date(2024, time.January, n, 0, 0, 0, 0, time.UTC)
}

var recordFields = NewFields[record]().
	Add("title", KindText, func(r record) any { return r.Title }).
	Add("status", KindEnum, func(r record) any { return r.Status }).
	Add("rank", KindInt, func(r record) any { return r.Rank }).
	Add("created", KindTime, func(r record) any { return r.Created }).
	Add("owner.name", KindText, func(r record) any {
		if r.Owner == nil {
			return nil
		}
		return r.Owner.Name
	})
