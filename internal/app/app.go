// Package app wires configuration, storage and services shared by the HTTP
// server and the showupctl command.
package app

import (
	"context"
	"errors"
	"fmt"

	"showup-server/internal/config"
	"showup-server/internal/logging"
	"showup-server/internal/metrics"
	"showup-server/internal/models"
	"showup-server/internal/predictor"
	"showup-server/internal/repository"
	"showup-server/internal/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the long-lived dependencies of a process.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *gorm.DB
	Store      *repository.GormRepository
	Classifier *predictor.Classifier
	Imports    *services.ImportService
	Risk       *services.RiskService
}

// LoadEnv reads an optional .env file and the environment into a config and
// logger.
func LoadEnv() (*config.Config, *zap.Logger, error) {
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	if envErr != nil {
		logger.Debug("no .env file loaded", zap.Error(envErr))
	}
	return cfg, logger, nil
}

// New opens the database and restores the last trained model, if any.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := models.InitDB(models.DatabaseConfig{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.Database.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", cfg.Database.Driver, err)
	}

	classifier := predictor.NewClassifier(predictor.NewFileStore(cfg.ModelPath))
	switch err := classifier.Load(ctx); {
	case err == nil:
		logger.Info("loaded model", zap.String("model_version", classifier.Params().Version), zap.String("path", cfg.ModelPath))
	case errors.Is(err, predictor.ErrParamsNotFound):
		logger.Info("no trained model yet", zap.String("path", cfg.ModelPath))
	default:
		logger.Warn("failed to load model", zap.String("path", cfg.ModelPath), zap.Error(err))
	}

	store := repository.NewGormRepository(db)
	m := metrics.New()
	return &App{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Store:      store,
		Classifier: classifier,
		Imports:    services.NewImportService(store, m, logger),
		Risk:       services.NewRiskService(store, classifier, m, logger),
	}, nil
}

// Close releases the database connection and flushes the logger.
func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	_ = a.Logger.Sync()
	return sqlDB.Close()
}
