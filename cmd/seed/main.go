// Command seed loads a question bank file (YAML or JSON) into the database,
// or writes the stored bank to one with --export.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/paesprep/backend/internal/infrastructure/logging"
	"github.com/paesprep/backend/internal/service"
	"github.com/paesprep/backend/internal/store"
)

type options struct {
	file   string
	export bool
	driver string
	dsn    string
}

func main() {
	_ = godotenv.Load()

	var opts options
	pflag.StringVarP(&opts.file, "file", "f", "", "bank file (.yaml, .yml or .json)")
	pflag.BoolVar(&opts.export, "export", false, "write the stored bank to --file instead of importing it")
	pflag.StringVar(&opts.driver, "driver", envOr("DB_DRIVER", "sqlite"), "database driver: sqlite or postgres")
	pflag.StringVar(&opts.dsn, "dsn", "", "database path or URL (defaults to SQLITE_PATH or DATABASE_URL)")
	pretty := pflag.Bool("pretty", true, "human readable log output")
	pflag.Parse()

	format := "json"
	if *pretty {
		format = "pretty"
	}
	logger, err := logging.New(os.Stderr, format, "info")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(logger, opts); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, opts options) error {
	if opts.file == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := codecFor(opts.file); err != nil {
		return err
	}

	dialect, err := store.ParseDialect(opts.driver)
	if err != nil {
		return err
	}
	dsn := opts.dsn
	if dsn == "" {
		dsn = envOr("SQLITE_PATH", "paes.db")
		if dialect == store.DialectPostgres {
			dsn = os.Getenv("DATABASE_URL")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := store.Open(ctx, dialect, dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	bank := service.NewBankService(db, logger)
	if opts.export {
		data, err := bank.Export(ctx)
		if err != nil {
			return err
		}
		if err := writeBank(opts.file, data); err != nil {
			return err
		}
		logger.Info("bank exported", "file", opts.file, "subjects", len(data.Subjects))
		return nil
	}

	data, err := readBank(opts.file)
	if err != nil {
		return err
	}
	res, err := bank.Import(ctx, data)
	if err != nil {
		return err
	}
	logger.Info("bank imported",
		"file", opts.file,
		"subjects", res.SubjectsImported,
		"topics", res.TopicsImported,
		"questions", res.QuestionsImported,
		"questions_kept", res.QuestionsKept)
	return nil
}

type codec struct {
	marshal   func(any) ([]byte, error)
	unmarshal func([]byte, any) error
}

func codecFor(path string) (codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return codec{
			marshal:   func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") },
			unmarshal: json.Unmarshal,
		}, nil
	case ".yaml", ".yml":
		return codec{marshal: yaml.Marshal, unmarshal: yaml.Unmarshal}, nil
	}
	return codec{}, fmt.Errorf("%s: unsupported file type", path)
}

func readBank(path string) (*service.BankData, error) {
	c, err := codecFor(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data service.BankData
	if err := c.unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &data, nil
}

func writeBank(path string, data *service.BankData) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	raw, err := c.marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, raw, 0o644)
}

func envOr(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
