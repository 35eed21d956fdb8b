package models

import (
	"encoding/json"
	"time"
)

// Message is a contact form submission. Messages are append-only.
type Message struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Message string      `json:"message"`
	Date    MessageDate `json:"date"`
}

// legacyDateLayouts are locale-formatted dates found in older message files.
var legacyDateLayouts = []string{
	"1/2/2006, 3:04:05 PM",
	"2/1/2006, 15:04:05",
	"02/01/2006, 15:04:05",
}

// MessageDate is a message timestamp. Dates that cannot be parsed are kept
// verbatim in Raw and written back unchanged.
type MessageDate struct {
	Time time.Time
	Raw  string
}

func NewMessageDate(t time.Time) MessageDate {
	return MessageDate{Time: t}
}

func (d MessageDate) IsZero() bool {
	return d.Time.IsZero() && d.Raw == ""
}

// String renders the date for pages and mails.
func (d MessageDate) String() string {
	if d.Time.IsZero() {
		return d.Raw
	}
	return d.Time.Local().Format("02 Jan 2006, 15:04")
}

func (d MessageDate) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		if d.Raw == "" {
			return []byte("null"), nil
		}
		return json.Marshal(d.Raw)
	}
	return json.Marshal(d.Time.Format(time.RFC3339Nano))
}

func (d *MessageDate) UnmarshalJSON(data []byte) error {
	*d = MessageDate{}
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		// epoch millis
		var millis int64
		if json.Unmarshal(data, &millis) == nil {
			d.Time = time.UnixMilli(millis).UTC()
			return nil
		}
		d.Raw = string(data)
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		d.Time = t
		return nil
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			d.Time = t
			return nil
		}
	}
	d.Raw = raw
	return nil
}

// MessageForm binds the public contact form.
type MessageForm struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email"`
	Message string `form:"message" validate:"required,max=5000"`
}
