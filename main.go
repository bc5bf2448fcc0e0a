package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"lead_handler/config"
	"lead_handler/lead"
	"lead_handler/mail"
	"lead_handler/middleware"
	"lead_handler/ratelimit"
	"lead_handler/sms"
)

const companyName = "Стеклопром Ростов"

var routes = []string{"/api/contact", "/functions/v1/send-contact-email"}

func main() {
	cfg, err := config.Load("settings.env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	limiter := ratelimit.NewWindowLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	limiter.StartJanitor(ctx, cfg.RateLimitCleanup)

	counters := ratelimit.NewMemoryStatsStore()
	stats := ratelimit.StatsStore(counters)
	if cfg.RateStatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateStatsRedisAddr,
			Password: cfg.RateStatsRedisPassword,
			DB:       cfg.RateStatsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		pingCancel()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		stats = ratelimit.Tee(counters, ratelimit.NewRedisStatsStore(
			rdb,
			ratelimit.WithStatsPrefix(cfg.RateStatsPrefix),
			ratelimit.WithStatsTTL(cfg.RateStatsTTL),
		))
	}

	alerter, closeAlerts := newAlerter(cfg)
	defer closeAlerts()

	handler := lead.NewHandler(lead.Options{
		Limiter:     limiter,
		Stats:       stats,
		Sender:      mail.NewThrottledSender(newSender(cfg), rate.Limit(cfg.MailRate), cfg.MailBurst),
		Renderer:    lead.NewRenderer(companyName),
		From:        cfg.MailFrom,
		To:          cfg.MailTo,
		SendTimeout: cfg.MailTimeout,
		Alerter:     alerter,
	})

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS(cfg.AllowedOrigin))

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.GET("/health", func(c *gin.Context) {
		total := counters.Total()
		c.JSON(http.StatusOK, gin.H{"status": "ok", "allowed": total.Allowed, "denied": total.Denied})
	})
	for _, path := range routes {
		handler.Register(r, path)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Server is listening on port %s...", cfg.ServerPort)
	log.Printf("mail: provider=%s recipients=%d timeout=%s", cfg.MailProvider, len(cfg.MailTo), cfg.MailTimeout)
	log.Printf("rate: max=%d window=%s stats=%v", cfg.RateLimitMax, cfg.RateLimitWindow, cfg.RateStatsEnabled)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}

func newSender(cfg *config.AppConfig) mail.Sender {
	if cfg.MailProvider == config.ProviderResend {
		return mail.NewResendSender(cfg.ResendAPIKey, cfg.ResendBaseURL, nil)
	}
	return mail.NewSMTPSender(mail.NewDialer(cfg))
}

// newAlerter returns the SMS alert hook for delivered leads and a func that
// releases its resources. With alerts off both are no-ops.
func newAlerter(cfg *config.AppConfig) (lead.Alerter, func()) {
	var (
		send sms.SendFunc
		port io.Closer
	)

	switch cfg.SMSProvider {
	case config.SMSTwilio:
		send = sms.NewTwilioSender(cfg.TwilioSID, cfg.TwilioAuthToken, cfg.TwilioPhone).Send
	case config.SMSHardware:
		p, err := sms.OpenModem(cfg.DevicePath, cfg.SerialBaud)
		if err != nil {
			log.Printf("Failed to open serial port, SMS alerts disabled: %v", err)
			return nil, func() {}
		}
		port = p
		send = sms.NewHardwareSender(p).Send
	default:
		return nil, func() {}
	}

	queue := sms.NewQueue(cfg.MaxQueueSize, send)
	queue.Start()

	alerter := lead.AlerterFunc(func(l lead.Lead) {
		queue.TrySend(&sms.SMS{Recipient: cfg.SMSAlertTo, Message: lead.AlertText(l)})
	})
	return alerter, func() {
		queue.Stop()
		if port != nil {
			_ = port.Close()
		}
	}
}
