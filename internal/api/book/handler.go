package book

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gobiblio/internal/api/response"
	"gobiblio/internal/domain"
	"gobiblio/internal/pkg/logger"
)

// BookService define o contrato que o Handler espera da camada de Serviço.
type BookService interface {
	CreateBook(ctx context.Context, input domain.BookInput) (domain.Book, error)
	UpdateBook(ctx context.Context, id string, input domain.BookInput) (domain.Book, error)
	GetBook(ctx context.Context, id string) (domain.Book, error)
	ListBooks(ctx context.Context, filter domain.BookFilter) (domain.BookPage, error)
}

// Handler agrupa os endpoints do catálogo.
type Handler struct {
	Service BookService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc BookService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListBooksHandler lida com GET /api/books.
// @Summary Lista o catálogo
// @Description Busca paginada por título, autor, ISBN e gênero. available=true restringe a livros disponíveis.
// @Tags books
// @Produce json
// @Param page query int false "Página (padrão 1)"
// @Param limit query int false "Itens por página (padrão 9)"
// @Param title query string false "Trecho do título"
// @Param author query string false "Trecho do nome do autor"
// @Param isbn query string false "Trecho do ISBN"
// @Param genre query string false "Gênero exato"
// @Param available query bool false "Somente disponíveis"
// @Success 200 {object} domain.BookPage
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /books [get]
func (h *Handler) ListBooksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	available, _ := strconv.ParseBool(q.Get("available"))

	filter := domain.BookFilter{
		Page:          response.PageParam(r),
		Limit:         limit,
		Title:         q.Get("title"),
		Author:        q.Get("author"),
		ISBN:          q.Get("isbn"),
		Genre:         q.Get("genre"),
		AvailableOnly: available,
	}

	page, err := h.Service.ListBooks(r.Context(), filter)
	response.Handle(w, r, h.Logger, page, err, http.StatusOK)
}

// GetBookHandler lida com GET /api/books/{id}.
// @Summary Detalhe de um livro
// @Tags books
// @Produce json
// @Param id path string true "ID do livro"
// @Success 200 {object} domain.Book
// @Failure 404 {object} domain.ErrorResponse "Livro não encontrado"
// @Router /books/{id} [get]
func (h *Handler) GetBookHandler(w http.ResponseWriter, r *http.Request) {
	book, err := h.Service.GetBook(r.Context(), chi.URLParam(r, "id"))
	response.Handle(w, r, h.Logger, book, err, http.StatusOK)
}

// CreateBookHandler lida com POST /api/books.
// @Summary Cadastra um livro
// @Description Autor e editora são criados se ainda não existirem. O livro nasce disponível.
// @Tags books
// @Accept json
// @Produce json
// @Param book body domain.BookInput true "Dados do livro"
// @Success 201 {object} domain.Book
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou ISBN duplicado"
// @Failure 403 {object} domain.ErrorResponse "Papel insuficiente"
// @Security ApiKeyAuth
// @Router /books [post]
func (h *Handler) CreateBookHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.BookInput
	if err := response.Decode(r, &input); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	book, err := h.Service.CreateBook(r.Context(), input)
	response.Handle(w, r, h.Logger, book, err, http.StatusCreated)
}

// UpdateBookHandler lida com PUT /api/books/{id}.
// @Summary Atualiza dados bibliográficos
// @Description O status de disponibilidade não é alterado por este endpoint.
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "ID do livro"
// @Param book body domain.BookInput true "Dados do livro"
// @Success 200 {object} domain.Book
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Livro não encontrado"
// @Security ApiKeyAuth
// @Router /books/{id} [put]
func (h *Handler) UpdateBookHandler(w http.ResponseWriter, r *http.Request) {
	var input domain.BookInput
	if err := response.Decode(r, &input); err != nil {
		response.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	book, err := h.Service.UpdateBook(r.Context(), chi.URLParam(r, "id"), input)
	response.Handle(w, r, h.Logger, book, err, http.StatusOK)
}
