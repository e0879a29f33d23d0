/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package bcc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mikeb26/boylstonchessclub-bracketbot/internal"
)

// vended by https://beta.boylstonchess.org/api/event/<eventId>
// EventDetail is the part of an event's details needed to draw brackets.
type EventDetail struct {
	EventID            int       `json:"eventId"`
	Title              string    `json:"title"`
	StartDate          time.Time `json:"startDate"`
	DateDisplay        string    `json:"dateDisplay"`
	Sections           []string  `json:"sections"`
	IsRegistrationOpen bool      `json:"isRegistrationOpen"`
	EventFormat        string    `json:"eventFormat"`
	NumEntries         int       `json:"numEntries"`
	Entries            []Entry   `json:"entries"`
}

// Entry represents a single registration entry for an event.
type Entry struct {
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	UscfID           int       `json:"uscfId"`
	ChessTitle       string    `json:"chessTitle"`
	SectionName      string    `json:"sectionName"`
	RegistrationDate time.Time `json:"registrationDate"`
	ByeRequests      string    `json:"byeRequests"`
	PrimaryRating    string    `json:"primaryRating"`
}

// GetEventDetail fetches an event and its registrations from the API.
func (c *Client) GetEventDetail(ctx context.Context,
	eventId int64) (*EventDetail, error) {

	resp, err := c.get(ctx, fmt.Sprintf("%v/event/%d", c.apiBase, eventId))
	if err != nil {
		return nil, fmt.Errorf("unable to fetch bcc event detail: %w", err)
	}
	defer resp.Body.Close()

	var detail EventDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("unable to parse bcc event detail: %w", err)
	}

	return &detail, nil
}

// Custom unmarshaller for EventDetail to handle flexible date parsing.
func (ed *EventDetail) UnmarshalJSON(data []byte) error {
	type Alias EventDetail
	aux := &struct {
		StartDate string `json:"startDate"`
		*Alias
	}{
		Alias: (*Alias)(ed),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("EventDetail unmarshal: %w", err)
	}
	var err error
	ed.StartDate, err = internal.ParseDateOrZero(aux.StartDate)
	if err != nil {
		return fmt.Errorf("parsing EventDetail.StartDate: %w", err)
	}
	return nil
}

// Custom unmarshaller for Entry to handle flexible date parsing.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type Alias Entry
	aux := &struct {
		RegistrationDate string `json:"registrationDate"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("Entry unmarshal: %w", err)
	}
	var err error
	e.RegistrationDate, err = internal.ParseDateOrZero(aux.RegistrationDate)
	if err != nil {
		return fmt.Errorf("parsing Entry.RegistrationDate: %w", err)
	}
	return nil
}
