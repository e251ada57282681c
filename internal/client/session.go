package client

import "context"

// Fetcher is the slice of the API client the session needs; kept small so
// tests can fake it.
type Fetcher interface {
	CreateAppointment(ctx context.Context, in BookingInput) (Record, error)
	FetchMine(ctx context.Context) ([]Record, error)
}

// Session glues the API client to the local state container. One session
// per authenticated user; all mutations go through it.
type Session struct {
	api   Fetcher
	state *State
}

func NewSession(api Fetcher) *Session {
	return &Session{
		api:   api,
		state: NewState(),
	}
}

// Load fetches the authoritative list and replaces local state with it. On
// failure the visible list is left empty and the error is returned for the
// caller to surface; the session stays usable.
func (s *Session) Load(ctx context.Context) error {
	records, err := s.api.FetchMine(ctx)

	if err != nil {
		s.state.Loaded(nil)
		return err
	}

	s.state.Loaded(records)
	return nil
}

// Book creates an appointment and optimistically appends the result without
// refetching.
func (s *Session) Book(ctx context.Context, in BookingInput) (Record, error) {
	rec, err := s.api.CreateAppointment(ctx, in)

	if err != nil {
		return Record{}, err
	}

	s.state.Appended(rec)
	return rec, nil
}

// Delete hides the record locally. The server keeps its copy.
func (s *Session) Delete(id string) {
	s.state.Removed(id)
}

// Appointments returns the currently visible records.
func (s *Session) Appointments() []Record {
	return s.state.Visible()
}
