package cmd

import (
	"database/sql"
	"net"

	"github.com/mzdehbashi-github/ableton-challenge/app/controller"
	"github.com/mzdehbashi-github/ableton-challenge/app/mail"
	"github.com/mzdehbashi-github/ableton-challenge/app/middleware"
	"github.com/mzdehbashi-github/ableton-challenge/app/repository"
	"github.com/mzdehbashi-github/ableton-challenge/app/service"
	"github.com/mzdehbashi-github/ableton-challenge/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP (Echo) server exposing the user-account endpoints.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	mailer, err := mail.NewSMTPSender(cfg.Mail)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to configure mail sender")
	}

	userRepo := repository.NewUserRepository(db)
	confirmationRepo := repository.NewEmailConfirmationRepository(db)
	tokenRepo := repository.NewAuthTokenRepository(db)

	tokenService := service.NewTokenService(tokenRepo, cfg)
	confirmationService := service.NewConfirmationService(db, mailer, cfg)
	accountService := service.NewAccountService(db, userRepo, confirmationRepo, confirmationService, tokenService)

	startHTTPServer(cfg, accountService, tokenService)
}

func startHTTPServer(cfg *config.Config, accountService service.AccountService, tokenService service.TokenService) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	userController := controller.NewUserController(accountService)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	users := e.Group("/v1/users")
	users.POST("/signup", userController.Signup)
	users.POST("/login", userController.Login)
	users.POST("/resend-email-confirmation", userController.ResendEmailConfirmation)
	users.POST("/confirm-email", userController.ConfirmEmail)

	usersProtected := users.Group("")
	usersProtected.Use(authMiddleware.RequireAuth)
	usersProtected.GET("/me", userController.Me)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	return nil
}
