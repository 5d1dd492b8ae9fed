package bookservice

import (
	"context"
	"strings"
	"time"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
)

const (
	// DefaultPageSize é o número de livros por página do catálogo.
	DefaultPageSize = 9
	maxPageSize     = 50
)

// Service é a estrutura que implementa as regras do catálogo.
type Service struct {
	repo   domain.BookRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Livros.
func NewService(repo domain.BookRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// normalizeISBN remove hífens e espaços e valida o tamanho (10 ou 13).
func normalizeISBN(raw string) (string, error) {
	isbn := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(raw))
	if len(isbn) != 10 && len(isbn) != 13 {
		return "", apperror.NewValidationError("ISBN must have 10 or 13 characters")
	}
	for i, c := range isbn {
		if c >= '0' && c <= '9' {
			continue
		}
		// ISBN-10 admite 'X' como dígito verificador
		if c == 'X' && len(isbn) == 10 && i == 9 {
			continue
		}
		return "", apperror.NewValidationError("ISBN contains invalid characters")
	}
	return isbn, nil
}

// validate normaliza a entrada e separa livro, autor e editora.
func (s *Service) validate(input domain.BookInput) (domain.Book, domain.Author, domain.Publisher, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.AuthorFirstName = strings.TrimSpace(input.AuthorFirstName)
	input.AuthorLastName = strings.TrimSpace(input.AuthorLastName)

	if input.Title == "" {
		return domain.Book{}, domain.Author{}, domain.Publisher{}, apperror.NewValidationError("Title is required")
	}
	if input.AuthorFirstName == "" || input.AuthorLastName == "" {
		return domain.Book{}, domain.Author{}, domain.Publisher{}, apperror.NewValidationError("Author first and last name are required")
	}

	isbn, err := normalizeISBN(input.ISBN)
	if err != nil {
		return domain.Book{}, domain.Author{}, domain.Publisher{}, err
	}

	if input.PublicationYear != 0 && (input.PublicationYear < 1000 || input.PublicationYear > time.Now().Year()+1) {
		return domain.Book{}, domain.Author{}, domain.Publisher{}, apperror.NewValidationError("Invalid publication year")
	}

	book := domain.Book{
		Title:           input.Title,
		ISBN:            isbn,
		PublicationYear: input.PublicationYear,
		Genre:           strings.TrimSpace(input.Genre),
		Description:     strings.TrimSpace(input.Description),
	}
	author := domain.Author{FirstName: input.AuthorFirstName, LastName: input.AuthorLastName}
	publisher := domain.Publisher{Name: strings.TrimSpace(input.Publisher)}
	return book, author, publisher, nil
}

// CreateBook cadastra um novo livro, sempre disponível.
func (s *Service) CreateBook(ctx context.Context, input domain.BookInput) (domain.Book, error) {
	s.logger.Debug("Iniciando criação de livro no serviço.", map[string]interface{}{"title": input.Title})

	book, author, publisher, err := s.validate(input)
	if err != nil {
		s.logger.Warn("Falha na validação do livro.", map[string]interface{}{"title": input.Title, "error": err.Error()})
		return domain.Book{}, err
	}

	created, err := s.repo.Create(ctx, book, author, publisher)
	if err != nil {
		return domain.Book{}, err
	}

	s.logger.Info("Livro criado com sucesso.", map[string]interface{}{"book_id": created.ID})
	return created, nil
}

// UpdateBook altera os dados bibliográficos. O status de disponibilidade não é tocado.
func (s *Service) UpdateBook(ctx context.Context, id string, input domain.BookInput) (domain.Book, error) {
	s.logger.Debug("Iniciando atualização de livro no serviço.", map[string]interface{}{"book_id": id})

	book, author, publisher, err := s.validate(input)
	if err != nil {
		s.logger.Warn("Falha na validação do livro.", map[string]interface{}{"book_id": id, "error": err.Error()})
		return domain.Book{}, err
	}
	book.ID = id

	updated, err := s.repo.Update(ctx, book, author, publisher)
	if err != nil {
		return domain.Book{}, err
	}

	s.logger.Info("Livro atualizado com sucesso.", map[string]interface{}{"book_id": id})
	return updated, nil
}

// GetBook busca um livro pelo ID.
func (s *Service) GetBook(ctx context.Context, id string) (domain.Book, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Book{}, apperror.NewValidationError("Book ID is required")
	}
	return s.repo.FindByID(ctx, id)
}

// ListBooks lista o catálogo com filtros e paginação.
func (s *Service) ListBooks(ctx context.Context, filter domain.BookFilter) (domain.BookPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	filter.Title = strings.TrimSpace(filter.Title)
	filter.Author = strings.TrimSpace(filter.Author)
	filter.ISBN = strings.TrimSpace(filter.ISBN)
	filter.Genre = strings.TrimSpace(filter.Genre)

	page, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return domain.BookPage{}, err
	}

	s.logger.Debug("Catálogo listado no serviço.", map[string]interface{}{"page": filter.Page, "total": page.Total})
	return page, nil
}
