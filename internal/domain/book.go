package domain

import (
	"context"
)

// BookStatus é o estado de disponibilidade de um livro.
// É um campo derivado: só as transações do motor de empréstimos o alteram.
type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookBorrowed  BookStatus = "borrowed"
)

// Book representa um exemplar do acervo.
type Book struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	ISBN            string     `json:"isbn"`
	PublicationYear int        `json:"publication_year"`
	Genre           string     `json:"genre"`
	Description     string     `json:"description"`
	Status          BookStatus `json:"status"`
	AuthorID        string     `json:"author_id"`
	PublisherID     string     `json:"publisher_id"`

	// Campos desnormalizados para leitura.
	AuthorName    string `json:"author,omitempty"`
	PublisherName string `json:"publisher,omitempty"`
}

// Author é o autor de um livro.
type Author struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Publisher é a editora de um livro.
type Publisher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookInput é o payload de criação/atualização de livro.
// Autor e editora são identificados pela chave natural e criados se não existirem.
type BookInput struct {
	Title           string `json:"title"`
	ISBN            string `json:"isbn"`
	PublicationYear int    `json:"publication_year"`
	Genre           string `json:"genre"`
	Description     string `json:"description"`
	AuthorFirstName string `json:"author_first_name"`
	AuthorLastName  string `json:"author_last_name"`
	Publisher       string `json:"publisher"`
}

// BookFilter define os parâmetros de busca e paginação do catálogo.
type BookFilter struct {
	Page          int
	Limit         int
	Title         string
	Author        string
	ISBN          string
	Genre         string
	AvailableOnly bool
}

// BookPage é uma página de resultados do catálogo.
type BookPage struct {
	Books       []Book   `json:"books"`
	Genres      []string `json:"genres"`
	Total       int      `json:"total"`
	Pages       int      `json:"pages"`
	CurrentPage int      `json:"current_page"`
}

// BookRepository é o contrato da camada de persistência do catálogo.
// Nenhum método deste contrato altera Book.Status.
type BookRepository interface {
	Create(ctx context.Context, book Book, author Author, publisher Publisher) (Book, error)
	Update(ctx context.Context, book Book, author Author, publisher Publisher) (Book, error)
	FindByID(ctx context.Context, id string) (Book, error)
	FindAll(ctx context.Context, filter BookFilter) (BookPage, error)
}

// TotalPages calcula o número de páginas para um total e tamanho de página.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
