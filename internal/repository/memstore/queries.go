package memstore

import (
	"context"
	"sort"
	"time"

	"gobiblio/internal/domain"
)

func page[T any](items []T, pageNum, limit int) []T {
	if limit <= 0 {
		return items
	}
	if pageNum < 1 {
		pageNum = 1
	}
	start := (pageNum - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (st *state) authorName(bookID string) string {
	a := st.authors[st.books[bookID].AuthorID]
	if a.ID == "" {
		return ""
	}
	return a.FirstName + " " + a.LastName
}

func (st *state) reservationView(r domain.Reservation) domain.ReservationView {
	book := st.books[r.BookID]
	return domain.ReservationView{
		ID:         r.ID,
		BookID:     r.BookID,
		BookTitle:  book.Title,
		Author:     st.authorName(r.BookID),
		ReaderID:   r.ReaderID,
		ReaderName: st.readers[r.ReaderID].FullName(),
		StartDate:  r.Window.Start,
		EndDate:    r.Window.End,
		Status:     r.Status,
		BookStatus: book.Status,
		CreatedAt:  r.CreatedAt,
	}
}

// ListReservations implementa domain.CirculationQueries.
func (s *Store) ListReservations(_ context.Context, filter domain.ReservationFilter) ([]domain.ReservationView, int, error) {
	var views []domain.ReservationView
	s.read(func(st *state) {
		for _, r := range st.reservations {
			if filter.Status != "" && r.Status != filter.Status {
				continue
			}
			if filter.ExcludeCancelled && r.Status == domain.ReservationCancelled {
				continue
			}
			if filter.BookID != "" && r.BookID != filter.BookID {
				continue
			}
			if filter.ReaderUserID != "" && st.readers[r.ReaderID].UserID != filter.ReaderUserID {
				continue
			}
			views = append(views, st.reservationView(r))
		}
	})

	if filter.BookID != "" {
		sort.Slice(views, func(i, j int) bool { return views[i].StartDate.Before(views[j].StartDate) })
	} else {
		sort.Slice(views, func(i, j int) bool {
			if views[i].CreatedAt.Equal(views[j].CreatedAt) {
				return views[i].ID < views[j].ID
			}
			return views[i].CreatedAt.After(views[j].CreatedAt)
		})
	}

	total := len(views)
	return append([]domain.ReservationView{}, page(views, filter.Page, filter.Limit)...), total, nil
}

// ListCheckoutCandidates implementa domain.CirculationQueries.
func (s *Store) ListCheckoutCandidates(_ context.Context, today domain.Date) ([]domain.ReservationView, error) {
	views := []domain.ReservationView{}
	s.read(func(st *state) {
		for _, r := range st.reservations {
			if r.Status != domain.ReservationPending || !r.Window.Contains(today) {
				continue
			}
			if st.books[r.BookID].Status != domain.BookAvailable {
				continue
			}
			views = append(views, st.reservationView(r))
		}
	})
	sort.Slice(views, func(i, j int) bool { return views[i].StartDate.Before(views[j].StartDate) })
	return views, nil
}

// ListLoans implementa domain.CirculationQueries.
func (s *Store) ListLoans(_ context.Context, filter domain.LoanFilter) ([]domain.LoanView, int, error) {
	var views []domain.LoanView
	s.read(func(st *state) {
		for _, l := range st.loans {
			reader := st.readers[l.ReaderID]
			due := st.reservations[l.ReservationID].Window.End
			if filter.Status != "" && l.Status != filter.Status {
				continue
			}
			if filter.ReaderUserID != "" && reader.UserID != filter.ReaderUserID {
				continue
			}
			if filter.OverdueOnly && (l.Status != domain.LoanBorrowed || !due.Before(filter.Today)) {
				continue
			}
			views = append(views, domain.LoanView{
				ID:         l.ID,
				BookID:     l.BookID,
				BookTitle:  st.books[l.BookID].Title,
				Author:     st.authorName(l.BookID),
				ReaderID:   l.ReaderID,
				ReaderName: reader.FullName(),
				LoanDate:   l.LoanDate,
				ReturnDate: l.ReturnDate,
				Status:     l.Status,
				DueDate:    due,
			})
		}
	})
	sort.Slice(views, func(i, j int) bool { return views[i].LoanDate.After(views[j].LoanDate) })

	total := len(views)
	return append([]domain.LoanView{}, page(views, filter.Page, filter.Limit)...), total, nil
}

// ListRegistrations implementa domain.CirculationQueries.
func (s *Store) ListRegistrations(_ context.Context, filter domain.RegistrationFilter) ([]domain.RegistrationRequest, int, error) {
	var out []domain.RegistrationRequest
	s.read(func(st *state) {
		for _, req := range st.registrations {
			switch filter.Status {
			case "":
			case "processed":
				if req.Status == domain.RegistrationPending {
					continue
				}
			default:
				if string(req.Status) != filter.Status {
					continue
				}
			}
			user := st.users[req.UserID]
			req.Username, req.Email = user.Username, user.Email
			out = append(out, req)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := len(out)
	return append([]domain.RegistrationRequest{}, page(out, filter.Page, filter.Limit)...), total, nil
}

// ListReaders implementa domain.CirculationQueries.
func (s *Store) ListReaders(_ context.Context) ([]domain.ReaderSummary, error) {
	out := []domain.ReaderSummary{}
	s.read(func(st *state) {
		active := map[string]int{}
		for _, l := range st.loans {
			if l.Status == domain.LoanBorrowed {
				active[l.ReaderID]++
			}
		}
		for _, r := range st.readers {
			out = append(out, domain.ReaderSummary{Reader: r, ActiveLoans: active[r.ID]})
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName == out[j].LastName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].LastName < out[j].LastName
	})
	return out, nil
}

// ListUnregisteredUsers implementa domain.CirculationQueries.
func (s *Store) ListUnregisteredUsers(_ context.Context) ([]domain.User, error) {
	out := []domain.User{}
	s.read(func(st *state) {
		registered := map[string]bool{}
		for _, r := range st.readers {
			registered[r.UserID] = true
		}
		for _, u := range st.users {
			if u.Role == domain.RoleUser && u.IsActive && !registered[u.ID] {
				out = append(out, u)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// ReaderStatus implementa domain.CirculationQueries.
func (s *Store) ReaderStatus(_ context.Context, userID string, since time.Time) (domain.ReaderStatus, error) {
	status := domain.ReaderStatus{UserID: userID}
	s.read(func(st *state) {
		for _, r := range st.readers {
			if r.UserID == userID {
				status.IsReader = true
				break
			}
		}
		for _, req := range st.registrations {
			if req.UserID == userID && req.Status == domain.RegistrationPending && req.CreatedAt.After(since) {
				status.HasPendingRequest = true
				break
			}
		}
	})
	return status, nil
}
