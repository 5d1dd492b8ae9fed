package bookrepo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registra o dialeto
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/cache"
	"gobiblio/internal/pkg/database"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const dialectPostgres = "postgres"

// BookRepository implementa domain.BookRepository sobre PostgreSQL, com
// cache-aside no Redis para a leitura por ID.
type BookRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewBookRepository cria e retorna uma nova instância do Repositório.
func NewBookRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *BookRepository {
	return &BookRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// baseSelect monta o SELECT com autor e editora desnormalizados.
func baseSelect() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(goqu.T("books").As("b")).
		Join(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		LeftJoin(goqu.T("publishers").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("b.publisher_id")))).
		Select(
			goqu.I("b.id"),
			goqu.I("b.title"),
			goqu.I("b.isbn"),
			goqu.COALESCE(goqu.I("b.publication_year"), 0),
			goqu.I("b.genre"),
			goqu.I("b.description"),
			goqu.I("b.status"),
			goqu.I("b.author_id"),
			goqu.COALESCE(goqu.L("b.publisher_id::text"), ""),
			goqu.L("a.first_name || ' ' || a.last_name"),
			goqu.COALESCE(goqu.I("p.name"), ""),
		)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(row rowScanner, extra ...interface{}) (domain.Book, error) {
	var b domain.Book
	dest := []interface{}{
		&b.ID, &b.Title, &b.ISBN, &b.PublicationYear, &b.Genre, &b.Description,
		&b.Status, &b.AuthorID, &b.PublisherID, &b.AuthorName, &b.PublisherName,
	}
	err := row.Scan(append(dest, extra...)...)
	return b, err
}

// upsertAuthor retorna o ID do autor, criando-o se ainda não existir.
func upsertAuthor(ctx context.Context, tx *sql.Tx, author domain.Author) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `
		INSERT INTO authors (id, first_name, last_name) VALUES ($1, $2, $3)
		ON CONFLICT (first_name, last_name) DO UPDATE SET first_name = EXCLUDED.first_name
		RETURNING id`,
		uuid.NewString(), author.FirstName, author.LastName,
	).Scan(&id)
	return id, err
}

// upsertPublisher retorna o ID da editora (nil se o nome for vazio).
func upsertPublisher(ctx context.Context, tx *sql.Tx, publisher domain.Publisher) (sql.NullString, error) {
	if strings.TrimSpace(publisher.Name) == "" {
		return sql.NullString{}, nil
	}
	var id string
	err := tx.QueryRowContext(ctx, `
		INSERT INTO publishers (id, name) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		uuid.NewString(), publisher.Name,
	).Scan(&id)
	return sql.NullString{String: id, Valid: err == nil}, err
}

func (r *BookRepository) translateWriteError(msg string, err error) error {
	switch database.PQCode(err) {
	case database.CodeUniqueViolation:
		r.logger.Info("ISBN já cadastrado.", map[string]interface{}{"error": err.Error()})
		return apperror.NewConflictError("Já existe um livro com este ISBN.")
	case database.CodeInvalidText:
		return apperror.NewNotFoundError("Book not found")
	}
	r.logger.Error(msg, err)
	return apperror.NewDBError(msg, err)
}

// Create persiste um novo livro. Autor e editora são reaproveitados pela chave natural.
func (r *BookRepository) Create(ctx context.Context, book domain.Book, author domain.Author, publisher domain.Publisher) (domain.Book, error) {
	r.logger.Debug("Iniciando criação de livro no repositório.", map[string]interface{}{"isbn": book.ISBN})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de criação de livro.", err)
		return domain.Book{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	authorID, err := upsertAuthor(ctxTimeout, tx, author)
	if err != nil {
		r.logger.Error("Falha ao obter autor.", err)
		return domain.Book{}, apperror.NewDBError("Falha ao obter autor", err)
	}
	publisherID, err := upsertPublisher(ctxTimeout, tx, publisher)
	if err != nil {
		r.logger.Error("Falha ao obter editora.", err)
		return domain.Book{}, apperror.NewDBError("Falha ao obter editora", err)
	}

	book.ID = uuid.NewString()
	book.Status = domain.BookAvailable
	_, err = tx.ExecContext(ctxTimeout, `
		INSERT INTO books (id, title, isbn, publication_year, genre, description, status, author_id, publisher_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		book.ID, book.Title, book.ISBN, book.PublicationYear, book.Genre, book.Description,
		book.Status, authorID, publisherID,
	)
	if err != nil {
		return domain.Book{}, r.translateWriteError("Falha ao inserir livro", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar criação de livro.", err)
		return domain.Book{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	book.AuthorID = authorID
	book.PublisherID = publisherID.String
	book.AuthorName = author.FirstName + " " + author.LastName
	book.PublisherName = publisher.Name

	r.logger.Info("Livro criado com sucesso.", map[string]interface{}{"book_id": book.ID, "isbn": book.ISBN})
	return book, nil
}

// Update altera os dados bibliográficos de um livro. O status nunca é alterado aqui.
func (r *BookRepository) Update(ctx context.Context, book domain.Book, author domain.Author, publisher domain.Publisher) (domain.Book, error) {
	r.logger.Debug("Iniciando atualização de livro no repositório.", map[string]interface{}{"book_id": book.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de atualização de livro.", err)
		return domain.Book{}, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	authorID, err := upsertAuthor(ctxTimeout, tx, author)
	if err != nil {
		r.logger.Error("Falha ao obter autor.", err)
		return domain.Book{}, apperror.NewDBError("Falha ao obter autor", err)
	}
	publisherID, err := upsertPublisher(ctxTimeout, tx, publisher)
	if err != nil {
		r.logger.Error("Falha ao obter editora.", err)
		return domain.Book{}, apperror.NewDBError("Falha ao obter editora", err)
	}

	result, err := tx.ExecContext(ctxTimeout, `
		UPDATE books
		SET title = $1, isbn = $2, publication_year = $3, genre = $4, description = $5,
		    author_id = $6, publisher_id = $7
		WHERE id = $8`,
		book.Title, book.ISBN, book.PublicationYear, book.Genre, book.Description,
		authorID, publisherID, book.ID,
	)
	if err != nil {
		return domain.Book{}, r.translateWriteError("Falha ao atualizar livro", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.Book{}, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if affected == 0 {
		return domain.Book{}, apperror.NewNotFoundError("Book not found")
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar atualização de livro.", err)
		return domain.Book{}, apperror.NewDBError("Falha ao commitar transação", err)
	}

	r.invalidate(ctx, book.ID)
	r.logger.Info("Livro atualizado com sucesso.", map[string]interface{}{"book_id": book.ID})

	return r.FindByID(ctx, book.ID)
}

func (r *BookRepository) invalidate(ctx context.Context, id string) {
	if err := cache.InvalidateBooks(ctx, r.Cache, id); err != nil {
		r.logger.Warn("Falha ao invalidar cache do livro.", map[string]interface{}{"book_id": id, "error": err.Error()})
	}
}

// cachedBook é a entrada de cache de um livro, marcada com a versão vigente
// quando a leitura no DB começou.
type cachedBook struct {
	Version int64       `json:"version"`
	Book    domain.Book `json:"book"`
}

// fromCache devolve o livro se a entrada existir e for da versão atual.
// version é a versão lida antes da consulta ao DB; cacheable é false quando
// o cache não respondeu e a entrada não deve ser gravada.
func (r *BookRepository) fromCache(ctx context.Context, id string) (book domain.Book, version int64, hit, cacheable bool) {
	version, err := cache.BookVersion(ctx, r.Cache, id)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("Falha ao ler versão do livro no cache.", map[string]interface{}{"book_id": id, "error": err.Error()})
		return domain.Book{}, 0, false, false
	}

	raw, err := r.Cache.Get(ctx, cache.BookKey(id))
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return domain.Book{}, version, false, true
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("Falha ao ler do cache.", map[string]interface{}{"book_id": id, "error": err.Error()})
		return domain.Book{}, version, false, true
	}

	var entry cachedBook
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		r.logger.Warn("Entrada de cache corrompida, consultando o DB.", map[string]interface{}{"book_id": id})
		return domain.Book{}, version, false, true
	}
	if entry.Version != version {
		metrics.CacheLookups.WithLabelValues("stale").Inc()
		return domain.Book{}, version, false, true
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return entry.Book, version, true, true
}

// toCache grava o livro com a versão lida antes da consulta. Falha não interrompe a leitura.
func (r *BookRepository) toCache(ctx context.Context, version int64, book domain.Book) {
	payload, err := json.Marshal(cachedBook{Version: version, Book: book})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, cache.BookKey(book.ID), payload, r.CacheTTL); err != nil {
		r.logger.Warn("Falha ao gravar livro no cache.", map[string]interface{}{"book_id": book.ID, "error": err.Error()})
	}
}

// FindByID busca um livro pelo ID, utilizando a estratégia Cache-Aside.
func (r *BookRepository) FindByID(ctx context.Context, id string) (domain.Book, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// 1. Tentar obter do Cache
	cached, version, hit, cacheable := r.fromCache(ctxTimeout, id)
	if hit {
		return cached, nil
	}

	// 2. Busca no Banco de Dados
	query, args, err := baseSelect().Where(goqu.I("b.id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return domain.Book{}, apperror.NewInternalError("Falha ao montar consulta de livro", err)
	}

	book, err := scanBook(r.DB.QueryRowContext(ctxTimeout, query, args...))
	if err != nil {
		if database.IsMissingRow(err) {
			return domain.Book{}, apperror.NewNotFoundError("Book not found")
		}
		r.logger.Error("Falha ao buscar livro no DB.", err)
		return domain.Book{}, apperror.NewDBError("Falha ao buscar livro", err)
	}

	// 3. Popular o cache com a versão vista antes da consulta
	if cacheable {
		r.toCache(ctxTimeout, version, book)
	}

	return book, nil
}

// FindAll lista o catálogo com filtros e paginação. O total vem de COUNT(*) OVER().
func (r *BookRepository) FindAll(ctx context.Context, filter domain.BookFilter) (domain.BookPage, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	ds := baseSelect().SelectAppend(goqu.L("COUNT(*) OVER()"))

	var where []goqu.Expression
	if filter.Title != "" {
		where = append(where, goqu.I("b.title").ILike("%"+filter.Title+"%"))
	}
	if filter.Author != "" {
		where = append(where, goqu.L("(a.first_name || ' ' || a.last_name) ILIKE ?", "%"+filter.Author+"%"))
	}
	if filter.ISBN != "" {
		where = append(where, goqu.I("b.isbn").ILike("%"+filter.ISBN+"%"))
	}
	if filter.Genre != "" {
		where = append(where, goqu.I("b.genre").Eq(filter.Genre))
	}
	if filter.AvailableOnly {
		where = append(where, goqu.I("b.status").Eq(domain.BookAvailable))
	}
	if len(where) > 0 {
		ds = ds.Where(where...)
	}

	offset := (filter.Page - 1) * filter.Limit
	query, args, err := ds.
		Order(goqu.I("b.title").Asc()).
		Limit(uint(filter.Limit)).
		Offset(uint(offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return domain.BookPage{}, apperror.NewInternalError("Falha ao montar consulta do catálogo", err)
	}
	r.logger.Debug("Executando listagem do catálogo.", map[string]interface{}{"query": query})

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar livros.", err)
		return domain.BookPage{}, apperror.NewDBError("Falha ao listar livros", err)
	}
	defer rows.Close()

	page := domain.BookPage{Books: []domain.Book{}, CurrentPage: filter.Page}
	for rows.Next() {
		book, err := scanBook(rows, &page.Total)
		if err != nil {
			r.logger.Error("Falha ao mapear linha de livro.", err)
			return domain.BookPage{}, apperror.NewDBError("Falha ao ler livros", err)
		}
		page.Books = append(page.Books, book)
	}
	if err := rows.Err(); err != nil {
		return domain.BookPage{}, apperror.NewDBError("Falha ao iterar livros", err)
	}

	// Página além do fim: o total precisa de uma contagem separada.
	if len(page.Books) == 0 && filter.Page > 1 {
		countQuery, countArgs, err := goqu.Dialect(dialectPostgres).
			From(goqu.T("books").As("b")).
			Join(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
			Select(goqu.COUNT(goqu.Star())).
			Where(where...).
			Prepared(true).
			ToSQL()
		if err == nil {
			_ = r.DB.QueryRowContext(ctxTimeout, countQuery, countArgs...).Scan(&page.Total)
		}
	}
	page.Pages = domain.TotalPages(page.Total, filter.Limit)

	genres, err := r.genres(ctxTimeout)
	if err != nil {
		return domain.BookPage{}, err
	}
	page.Genres = genres

	r.logger.Debug("Catálogo listado.", map[string]interface{}{"count": len(page.Books), "total": page.Total})
	return page, nil
}

func (r *BookRepository) genres(ctx context.Context) ([]string, error) {
	query, args, err := goqu.Dialect(dialectPostgres).
		From("books").
		Select(goqu.I("genre")).
		Distinct().
		Where(goqu.I("genre").Neq("")).
		Order(goqu.I("genre").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao montar consulta de gêneros", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar gêneros.", err)
		return nil, apperror.NewDBError("Falha ao listar gêneros", err)
	}
	defer rows.Close()

	genres := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, apperror.NewDBError("Falha ao ler gêneros", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

