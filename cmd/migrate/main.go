package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"gobiblio/config"
	"gobiblio/internal/pkg/database"
	"gobiblio/internal/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: arquivo .env não encontrado. Usando apenas o ambiente do sistema: %v", err)
	}

	cfg := config.LoadConfig()
	appLog := logger.NewConsoleLogger(cfg.LogLevel)

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "./sql", "diretório com os arquivos de migração")
	flag.Parse()

	db, err := database.NewPostgresDB(cfg.DatabaseURL, appLog)
	if err != nil {
		appLog.Fatal("goose: falha ao conectar ao DB.", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLog.Error("goose: falha ao fechar o DB.", err)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		appLog.Fatal("goose: dialeto não suportado.", err)
	}
	goose.SetLogger(goose.NopLogger())

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := goose.Run(command, db, migrationsDir, args...); err != nil {
		appLog.Fatal(fmt.Sprintf("goose %s falhou.", command), err)
	}

	fmt.Printf("goose %s concluído\n", command)
}
