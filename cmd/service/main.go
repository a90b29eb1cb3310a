package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	root "github.com/raiseyourvoice/backend"
	"github.com/raiseyourvoice/backend/api"
	"github.com/raiseyourvoice/backend/auth"
	"github.com/raiseyourvoice/backend/campaigns"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/donations"
	"github.com/raiseyourvoice/backend/encryption"
	"github.com/raiseyourvoice/backend/events"
	"github.com/raiseyourvoice/backend/localization"
	"github.com/raiseyourvoice/backend/notifications"
	"github.com/raiseyourvoice/backend/notifications/mailtemplates"
	"github.com/raiseyourvoice/backend/notifications/push"
	"github.com/raiseyourvoice/backend/notifications/smtp"
	"github.com/raiseyourvoice/backend/notifications/twilio"
	"github.com/raiseyourvoice/backend/objectstorage"
	"github.com/raiseyourvoice/backend/posts"
	"github.com/raiseyourvoice/backend/rpc"
	"github.com/raiseyourvoice/backend/stripe"
	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.vocdoni.io/dvote/log"
)

func main() {
	// a missing .env file is fine, the environment and flags still apply
	_ = godotenv.Load()
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 8080, "listen port")
	flag.Int("grpc-port", 9090, "gRPC listen port, 0 disables the gRPC server")
	flag.StringP("secret", "s", "", "API secret used to sign the access tokens")
	flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.String("web-app-url", "https://app.raiseyourvoice.org", "base URL of the web app, used in the emails")
	flag.StringSlice("allowed-origins", nil, "CORS allowed origins, all if empty")
	flag.String("mongo-url", "", "The URL of the MongoDB server")
	flag.String("mongo-db", "raiseyourvoice", "The name of the MongoDB database")
	flag.String("redis-url", "", "The URL of the Redis server, the caches stay local if empty")
	flag.String("amqp-url", "", "The URL of the RabbitMQ broker, events are discarded if empty")
	flag.String("encryption-key", "", "master secret of the field encryption keys (32 bytes at least)")
	flag.Duration("key-rotation-interval", encryption.DefaultCheckInterval, "how often the key rotation is checked")
	flag.Duration("key-rotation-period", encryption.DefaultRotationPeriod, "maximum age of the active encryption key")
	flag.String("stripe-api-key", "", "Stripe API secret")
	flag.String("stripe-webhook-secret", "", "Stripe webhook signing secret")
	flag.String("stripe-donation-product", "", "Stripe product of the subscription donations")
	flag.String("smtp-server", "", "SMTP server")
	flag.Int("smtp-port", 587, "SMTP server port")
	flag.String("smtp-username", "", "SMTP username")
	flag.String("smtp-password", "", "SMTP password")
	flag.String("email-from-address", "", "Email service from address")
	flag.String("email-from-name", "RaiseYourVoice", "Email service from name")
	flag.String("twilio-account-sid", "", "Twilio account SID")
	flag.String("twilio-auth-token", "", "Twilio auth token")
	flag.String("twilio-from-number", "", "Twilio sender number")
	flag.String("s3-bucket", "", "object storage bucket, uploads are disabled if empty")
	flag.String("s3-region", "", "object storage region")
	flag.String("s3-endpoint", "", "object storage endpoint, for S3 compatible services")
	flag.String("s3-access-key", "", "object storage access key")
	flag.String("s3-secret-key", "", "object storage secret key")
	flag.String("s3-public-url", "", "public base URL of the uploaded objects")
	flag.StringSlice("languages", localization.DefaultLanguages, "supported languages, the first one is the default")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("RYV")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	log.Init(viper.GetString("log-level"), "stdout", nil)
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	secret := viper.GetString("secret")
	if secret == "" {
		log.Fatal("secret is required")
	}
	encryptionKey := viper.GetString("encryption-key")
	if encryptionKey == "" {
		log.Fatal("encryption key is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize the MongoDB database
	database, err := db.New(viper.GetString("mongo-url"), viper.GetString("mongo-db"))
	if err != nil {
		log.Fatalf("could not create the MongoDB database: %v", err)
	}
	defer database.Close()
	// connect to redis if configured
	var redisClient *redis.Client
	if redisURL := viper.GetString("redis-url"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("invalid redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("could not connect to redis: %v", err)
		}
		defer func() { _ = redisClient.Close() }()
		log.Infow("redis client created", "addr", opts.Addr)
	}
	// field encryption and its key rotation
	encrypter, err := encryption.New(ctx, &encryption.Config{
		DB:             database,
		MasterKey:      []byte(encryptionKey),
		RotationPeriod: viper.GetDuration("key-rotation-period"),
	})
	if err != nil {
		log.Fatalf("could not create the encryption service: %v", err)
	}
	encrypter.StartRotationWorker(ctx, viper.GetDuration("key-rotation-interval"))
	authService, err := auth.New(&auth.Config{
		DB:        database,
		Secret:    secret,
		Encrypter: encrypter,
	})
	if err != nil {
		log.Fatalf("could not create the auth service: %v", err)
	}
	// domain events
	var publisher events.Publisher = events.NopPublisher{}
	if amqpURL := viper.GetString("amqp-url"); amqpURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(amqpURL)
		if err != nil {
			log.Fatalf("could not connect to the event broker: %v", err)
		}
		publisher = amqpPublisher
	}
	defer publisher.Close()
	// notifications
	if err := mailtemplates.Load(root.Assets, "assets/mail"); err != nil {
		log.Fatalf("could not load the mail templates: %v", err)
	}
	pushConf := &push.Config{
		DB:        database,
		WebAppURL: viper.GetString("web-app-url"),
	}
	if smtpServer := viper.GetString("smtp-server"); smtpServer != "" {
		mail := new(smtp.Email)
		if err := mail.New(&smtp.Config{
			FromName:     viper.GetString("email-from-name"),
			FromAddress:  viper.GetString("email-from-address"),
			SMTPServer:   smtpServer,
			SMTPPort:     viper.GetInt("smtp-port"),
			SMTPUsername: viper.GetString("smtp-username"),
			SMTPPassword: viper.GetString("smtp-password"),
		}); err != nil {
			log.Fatalf("could not create the email service: %v", err)
		}
		pushConf.MailService = mail
		log.Infow("email service created", "from", viper.GetString("email-from-address"))
	}
	if sid := viper.GetString("twilio-account-sid"); sid != "" {
		var sms notifications.NotificationService = new(twilio.SMS)
		if err := sms.New(&twilio.Config{
			AccountSid: sid,
			AuthToken:  viper.GetString("twilio-auth-token"),
			FromNumber: viper.GetString("twilio-from-number"),
		}); err != nil {
			log.Fatalf("could not create the SMS service: %v", err)
		}
		pushConf.SMSService = sms
		pushConf.Phones = authService
		log.Infow("SMS service created", "from", viper.GetString("twilio-from-number"))
	}
	notifier, err := push.New(pushConf)
	if err != nil {
		log.Fatalf("could not create the notification service: %v", err)
	}
	notifier.Start(ctx)
	// campaigns, donations and payments
	campaignService, err := campaigns.New(database, notifier, publisher)
	if err != nil {
		log.Fatalf("could not create the campaign service: %v", err)
	}
	stripeConf := &stripe.Config{
		APIKey:            viper.GetString("stripe-api-key"),
		WebhookSecret:     viper.GetString("stripe-webhook-secret"),
		DonationProductID: viper.GetString("stripe-donation-product"),
	}
	if err := stripeConf.Validate(); err != nil {
		log.Fatalf("invalid stripe configuration: %v", err)
	}
	donationService, err := donations.New(&donations.Config{
		DB:         database,
		Gateway:    stripe.NewClient(stripeConf),
		Milestones: campaignService,
		Notifier:   notifier,
		Publisher:  publisher,
	})
	if err != nil {
		log.Fatalf("could not create the donation service: %v", err)
	}
	var eventStore stripe.EventStore
	if redisClient != nil {
		eventStore = stripe.NewRedisEventStore(redisClient, stripeConf.EventTTL)
	}
	stripeService, err := stripe.NewService(stripeConf, donationService, eventStore)
	if err != nil {
		log.Fatalf("could not create the stripe service: %v", err)
	}
	// localization
	localizationService, err := localization.New(&localization.Config{
		DB:        database,
		Redis:     redisClient,
		Languages: viper.GetStringSlice("languages"),
	})
	if err != nil {
		log.Fatalf("could not create the localization service: %v", err)
	}
	if _, err := localizationService.ImportDefaults(ctx, root.Assets); err != nil {
		log.Fatalf("could not import the default localizations: %v", err)
	}
	if err := localizationService.Listen(ctx); err != nil {
		log.Fatalf("could not listen to the localization invalidations: %v", err)
	}
	postService, err := posts.New(database, notifier)
	if err != nil {
		log.Fatalf("could not create the post service: %v", err)
	}
	// object storage is optional
	var objectStorage *objectstorage.Client
	if bucket := viper.GetString("s3-bucket"); bucket != "" {
		objectStorage, err = objectstorage.New(ctx, &objectstorage.Config{
			Bucket:    bucket,
			Region:    viper.GetString("s3-region"),
			Endpoint:  viper.GetString("s3-endpoint"),
			AccessKey: viper.GetString("s3-access-key"),
			SecretKey: viper.GetString("s3-secret-key"),
			PublicURL: viper.GetString("s3-public-url"),
		})
		if err != nil {
			log.Fatalf("could not create the object storage client: %v", err)
		}
	}
	// create the local API server
	apiServer, err := api.New(&api.Config{
		Host:           host,
		Port:           port,
		DB:             database,
		Auth:           authService,
		Campaigns:      campaignService,
		Donations:      donationService,
		Posts:          postService,
		Notifications:  notifier,
		Localization:   localizationService,
		Stripe:         stripeService,
		ObjectStorage:  objectStorage,
		AllowedOrigins: viper.GetStringSlice("allowed-origins"),
	})
	if err != nil {
		log.Fatalf("could not create the API server: %v", err)
	}
	apiServer.Start()
	var grpcServer *rpc.Server
	if grpcPort := viper.GetInt("grpc-port"); grpcPort > 0 {
		grpcServer, err = rpc.New(&rpc.Config{
			Host:  host,
			Port:  grpcPort,
			Auth:  authService,
			Posts: postService,
		})
		if err != nil {
			log.Fatalf("could not create the gRPC server: %v", err)
		}
		if err := grpcServer.Start(); err != nil {
			log.Fatal(err)
		}
	}
	log.Infow("server started", "host", host, "port", port)
	// wait for a signal, as the servers run in goroutines
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	log.Infow("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Warnw("API server shutdown failed", "error", err)
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}
}
