package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Raj051299/cms-mobile-app/internal/cms/service"
	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/store/memory"
	"github.com/Raj051299/cms-mobile-app/internal/cms/store/sqlite"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
	"github.com/Raj051299/cms-mobile-app/internal/config"
	"github.com/Raj051299/cms-mobile-app/internal/db"
	"github.com/Raj051299/cms-mobile-app/internal/grpcapi"
	"github.com/Raj051299/cms-mobile-app/internal/httpapi"
	"github.com/Raj051299/cms-mobile-app/internal/telemetry"
)

type stores struct {
	members    store.MemberStore
	events     store.EventStore
	attendance store.AttendanceStore
	audit      store.ClockAuditStore
	users      store.UserStore
}

func main() {
	logger := log.New(os.Stdout, "cms-server ", log.LstdFlags|log.LUTC)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Fatalf("telemetry: %v", err)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		if cfg.Env == "prod" {
			logger.Fatalf("CMS_JWT_SECRET is required in prod")
		}
		secret = uuid.NewString()
		logger.Printf("CMS_JWT_SECRET not set; using a random secret, tokens will not survive a restart")
	}

	var adminHash string
	if cfg.SeedAdminPassword != "" && cfg.Env == "dev" {
		if adminHash, err = service.HashPassword(cfg.SeedAdminPassword); err != nil {
			logger.Fatalf("hash seed admin password: %v", err)
		}
	}

	// Stores
	var st stores
	switch cfg.Store {
	case "memory":
		st = memoryStores(ctx, cfg.SeedAdminUser, adminHash)
		logger.Printf("using in-memory stores")
	default:
		conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
		if err != nil {
			logger.Fatalf("open db: %v", err)
		}
		defer conn.Close()
		if cfg.Env == "dev" {
			if err := db.SeedDev(ctx, conn, db.SeedDevOptions{
				AdminUsername:     cfg.SeedAdminUser,
				AdminPasswordHash: adminHash,
			}); err != nil {
				logger.Fatalf("seed dev: %v", err)
			}
		}
		writer := db.NewWorker(conn)
		defer writer.Close()
		st = sqliteStores(conn, writer)
		logger.Printf("using sqlite at %s", cfg.DBPath)
	}

	// Services
	feed := service.NewAttendanceFeed()
	query := service.NewAttendanceQuery(st.attendance, feed, logger)
	clock := service.NewClockEngine(service.ClockDependencies{
		Attendance: st.attendance,
		Events:     st.events,
		Members:    st.members,
		Audit:      st.audit,
		Notifier:   feed,
		Logger:     logger,
	})
	reports := service.NewReportService(service.ReportDependencies{
		Members:  st.members,
		Events:   st.events,
		Query:    query,
		Logger:   logger,
		Location: cfg.ReportLocation(),
	})
	auth := service.NewAuthService(st.users, st.members, service.AuthConfig{
		Secret:        []byte(secret),
		SessionTTL:    cfg.SessionTTL,
		RatePerMinute: cfg.LoginRatePerMinute,
	})

	auditor := service.NewOrphanAuditor(st.attendance, cfg.OrphanAuditInterval, logger)
	auditor.Start(ctx)
	defer auditor.Stop()

	// HTTP
	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:  logger,
		Addr:    cfg.HTTPAddr,
		Auth:    auth,
		Members: service.NewMemberDirectory(st.members),
		Events:  service.NewEventCatalog(st.events),
		Clock:   clock,
		Query:   query,
		Reports: reports,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	// gRPC
	grpcDone := make(chan struct{})
	if cfg.GRPCEnabled {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Fatalf("listen grpc %s: %v", cfg.GRPCAddr, err)
		}
		gsrv := grpcapi.NewServer(grpcapi.Dependencies{
			Logger:  logger,
			Auth:    auth,
			Clock:   clock,
			Query:   query,
			Reports: reports,
		})
		go func() {
			defer close(grpcDone)
			logger.Printf("grpc listening on %s", lis.Addr())
			if err := gsrv.Serve(ctx, lis); err != nil {
				logger.Printf("grpc error: %v", err)
				stop()
			}
		}()
	} else {
		close(grpcDone)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	<-grpcDone
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Printf("telemetry shutdown: %v", err)
	}
}

func sqliteStores(conn *sql.DB, writer *db.Worker) stores {
	return stores{
		members:    sqlite.NewMemberStore(conn, writer),
		events:     sqlite.NewEventStore(conn, writer),
		attendance: sqlite.NewAttendanceStore(conn, writer),
		audit:      sqlite.NewClockAuditStore(conn, writer),
		users:      sqlite.NewUserStore(conn, writer),
	}
}

func memoryStores(ctx context.Context, adminUser, adminHash string) stores {
	events := memory.NewEventStore()
	users := memory.NewUserStore()
	if adminUser != "" && adminHash != "" {
		_ = users.CreateUser(ctx, types.User{
			ID:           uuid.NewString(),
			Username:     adminUser,
			PasswordHash: adminHash,
			IsAdmin:      true,
			CreatedAt:    time.Now().UTC(),
		})
	}
	return stores{
		members:    memory.NewMemberStore(),
		events:     events,
		attendance: memory.NewAttendanceStore(events),
		audit:      memory.NewClockAuditStore(),
		users:      users,
	}
}
