package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gobiblio/config"
	_ "gobiblio/docs" // Registra a especificação Swagger
	"gobiblio/internal/pkg/cache"
	"gobiblio/internal/pkg/clock"
	"gobiblio/internal/pkg/database"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/token"

	"gobiblio/internal/api/book"
	"gobiblio/internal/api/loan"
	"gobiblio/internal/api/reader"
	"gobiblio/internal/api/reservation"
	"gobiblio/internal/api/router"
	"gobiblio/internal/api/user"
	"gobiblio/internal/domain"
	"gobiblio/internal/repository/bookrepo"
	"gobiblio/internal/repository/circulationrepo"
	"gobiblio/internal/repository/memstore"
	"gobiblio/internal/repository/userrepo"
	"gobiblio/internal/service/bookservice"
	"gobiblio/internal/service/loanservice"
	"gobiblio/internal/service/readerservice"
	"gobiblio/internal/service/reservationservice"
	"gobiblio/internal/service/userservice"
)

// @title GoBiblio API
// @version 1.0
// @description Backend de biblioteca: catálogo, leitores, reservas e empréstimos.
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

// storage agrupa as implementações de persistência escolhidas pelo STORE_DRIVER.
type storage struct {
	books   domain.BookRepository
	users   domain.UserRepository
	store   domain.Store
	queries domain.CirculationQueries
	health  router.Pinger
	close   func()
}

func main() {
	log.Println("⚡ Inicializando serviço GoBiblio...")
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		// Sem .env seguimos só com o ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	var appLog logger.Logger
	if cfg.Environment == "development" {
		appLog = logger.NewConsoleLogger(cfg.LogLevel)
	} else {
		appLog = logger.NewLogger(cfg.LogLevel)
	}
	appLog.Info("Configurações carregadas.", map[string]interface{}{
		"env":          cfg.Environment,
		"store_driver": cfg.StoreDriver,
		"timezone":     cfg.Timezone.String(),
	})

	// 1. Cache (Redis). Sem Redis o serviço segue sem cache.
	var cacheClient cache.Client = cache.NoopClient{}
	if cfg.CacheEnabled {
		redisClient, err := cache.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			appLog.Warn("Redis indisponível, seguindo sem cache.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		} else {
			defer redisClient.Close()
			cacheClient = redisClient
			appLog.Info("Conexão Redis estabelecida.", nil)
		}
	}

	// 2. Persistência
	st := openStorage(cfg, cacheClient, appLog)
	defer st.close()

	// 3. INJEÇÃO DE DEPENDÊNCIAS: Repository -> Service -> Handler
	clk := clock.New(cfg.Timezone)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	userSvc := userservice.NewService(st.users, tokenSvc, appLog)
	bookSvc := bookservice.NewService(st.books, appLog)
	readerSvc := readerservice.NewService(st.store, st.queries, appLog,
		readerservice.WithClock(clk), readerservice.WithWindow(cfg.RegistrationWindow))
	reservationSvc := reservationservice.NewService(st.store, st.queries, appLog, reservationservice.WithClock(clk))
	loanSvc := loanservice.NewService(st.store, st.queries, appLog, loanservice.WithClock(clk))
	appLog.Debug("Serviços inicializados.", nil)

	handlers := router.Handlers{
		Books:        book.NewHandler(bookSvc, appLog),
		Users:        user.NewHandler(userSvc, appLog),
		Readers:      reader.NewHandler(readerSvc, appLog),
		Reservations: reservation.NewHandler(reservationSvc, appLog),
		Loans:        loan.NewHandler(loanSvc, appLog),
	}

	// 4. Roteador e servidor
	r := router.NewRouter(handlers, router.Options{
		TokenService:    tokenSvc,
		Cache:           cacheClient,
		RateLimit:       cfg.RateLimitMaxRequests,
		RateLimitPeriod: cfg.RateLimitPeriod,
		Health:          st.health,
		Logger:          appLog,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor GoBiblio ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}

// openStorage monta os repositórios do driver configurado.
func openStorage(cfg *config.Config, cacheClient cache.Client, appLog logger.Logger) storage {
	if cfg.StoreDriver == "memory" {
		mem := memstore.New(appLog)
		appLog.Warn("Usando armazenamento em memória: os dados se perdem ao reiniciar.", nil)
		return storage{
			books:   mem,
			users:   mem.Users(),
			store:   mem,
			queries: mem,
			close:   func() {},
		}
	}

	db, err := database.NewPostgresDB(cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	circulation := circulationrepo.NewStore(db, cacheClient, cfg.DBTimeout, appLog)
	return storage{
		books:   bookrepo.NewBookRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, appLog),
		users:   userrepo.NewUserRepository(db, cfg.DBTimeout, appLog),
		store:   circulation,
		queries: circulation,
		health:  db,
		close:   func() { closeDB(db, appLog) },
	}
}

func closeDB(db *sql.DB, appLog logger.Logger) {
	if err := db.Close(); err != nil {
		appLog.Error("Falha ao fechar conexão com o banco.", err)
	}
}
