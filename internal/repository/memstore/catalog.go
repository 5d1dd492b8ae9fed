package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
)

// getOrCreateAuthor reaproveita o autor pela chave natural (nome, sobrenome).
func (st *state) getOrCreateAuthor(a domain.Author) domain.Author {
	for _, existing := range st.authors {
		if existing.FirstName == a.FirstName && existing.LastName == a.LastName {
			return existing
		}
	}
	a.ID = uuid.NewString()
	st.authors[a.ID] = a
	return a
}

func (st *state) getOrCreatePublisher(p domain.Publisher) domain.Publisher {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Publisher{}
	}
	for _, existing := range st.publishers {
		if existing.Name == p.Name {
			return existing
		}
	}
	p.ID = uuid.NewString()
	st.publishers[p.ID] = p
	return p
}

func (st *state) isbnTaken(isbn, exceptID string) bool {
	for _, b := range st.books {
		if b.ISBN == isbn && b.ID != exceptID {
			return true
		}
	}
	return false
}

func (st *state) withNames(b domain.Book) domain.Book {
	b.AuthorName = st.authorName(b.ID)
	b.PublisherName = st.publishers[b.PublisherID].Name
	return b
}

// Create implementa domain.BookRepository.
func (s *Store) Create(_ context.Context, book domain.Book, author domain.Author, publisher domain.Publisher) (domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.isbnTaken(book.ISBN, "") {
		return domain.Book{}, apperror.NewConflictError("Já existe um livro com este ISBN.")
	}

	book.ID = uuid.NewString()
	book.Status = domain.BookAvailable
	book.AuthorID = s.st.getOrCreateAuthor(author).ID
	book.PublisherID = s.st.getOrCreatePublisher(publisher).ID
	s.st.books[book.ID] = book

	return s.st.withNames(book), nil
}

// Update implementa domain.BookRepository. O status atual é preservado.
func (s *Store) Update(_ context.Context, book domain.Book, author domain.Author, publisher domain.Publisher) (domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.st.books[book.ID]
	if !ok {
		return domain.Book{}, apperror.NewNotFoundError("Book not found")
	}
	if s.st.isbnTaken(book.ISBN, book.ID) {
		return domain.Book{}, apperror.NewConflictError("Já existe um livro com este ISBN.")
	}

	book.Status = current.Status
	book.AuthorID = s.st.getOrCreateAuthor(author).ID
	book.PublisherID = s.st.getOrCreatePublisher(publisher).ID
	s.st.books[book.ID] = book

	return s.st.withNames(book), nil
}

// FindByID implementa domain.BookRepository.
func (s *Store) FindByID(_ context.Context, id string) (domain.Book, error) {
	var (
		book domain.Book
		ok   bool
	)
	s.read(func(st *state) {
		book, ok = st.books[id]
		if ok {
			book = st.withNames(book)
		}
	})
	if !ok {
		return domain.Book{}, apperror.NewNotFoundError("Book not found")
	}
	return book, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// FindAll implementa domain.BookRepository.
func (s *Store) FindAll(_ context.Context, filter domain.BookFilter) (domain.BookPage, error) {
	var (
		books  []domain.Book
		genres []string
	)
	s.read(func(st *state) {
		seen := map[string]bool{}
		for _, b := range st.books {
			if b.Genre != "" && !seen[b.Genre] {
				seen[b.Genre] = true
				genres = append(genres, b.Genre)
			}

			b = st.withNames(b)
			if filter.Title != "" && !containsFold(b.Title, filter.Title) {
				continue
			}
			if filter.Author != "" && !containsFold(b.AuthorName, filter.Author) {
				continue
			}
			if filter.ISBN != "" && !containsFold(b.ISBN, filter.ISBN) {
				continue
			}
			if filter.Genre != "" && b.Genre != filter.Genre {
				continue
			}
			if filter.AvailableOnly && b.Status != domain.BookAvailable {
				continue
			}
			books = append(books, b)
		}
	})
	sort.Strings(genres)
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })

	if genres == nil {
		genres = []string{}
	}
	return domain.BookPage{
		Books:       append([]domain.Book{}, page(books, filter.Page, filter.Limit)...),
		Genres:      genres,
		Total:       len(books),
		Pages:       domain.TotalPages(len(books), filter.Limit),
		CurrentPage: filter.Page,
	}, nil
}
