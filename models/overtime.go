package models

import (
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Status string

const (
	StatusLeave      Status = "leave"
	StatusWorked     Status = "worked"
	StatusUnrecorded Status = "unrecorded"
)

// Record is one calendar day's attendance entry. OvertimeHours is
// computed by the backend.
type Record struct {
	Date          string  `json:"date"`
	ClockOut      string  `json:"clock_out"`
	IsLeave       bool    `json:"is_leave"`
	OvertimeHours float64 `json:"overtime_hours"`
}

// Status classifies the record. Leave wins over a recorded clock-out.
func (r *Record) Status() Status {
	if r.IsLeave {
		return StatusLeave
	}
	if r.ClockOut != "" {
		return StatusWorked
	}
	return StatusUnrecorded
}

func (r *Record) Day() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// RecordPayload is the body of create and update calls.
type RecordPayload struct {
	Date     string  `json:"date"`
	ClockOut *string `json:"clock_out"`
	IsLeave  bool    `json:"is_leave"`
}

// NewRecordPayload drops the clock-out of a leave day.
func NewRecordPayload(date, clockOut string, isLeave bool) RecordPayload {
	p := RecordPayload{Date: date, IsLeave: isLeave}
	if !isLeave && clockOut != "" {
		p.ClockOut = &clockOut
	}
	return p
}
