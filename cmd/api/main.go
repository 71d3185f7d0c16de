package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/fieldops-hq/hrops-backend/internal/config"
	"github.com/fieldops-hq/hrops-backend/internal/domain/authz"
	appHTTP "github.com/fieldops-hq/hrops-backend/internal/handler/http"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/clock"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/database"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/jwt"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/storage"
	"github.com/fieldops-hq/hrops-backend/internal/repository/postgresql"
	attendanceService "github.com/fieldops-hq/hrops-backend/internal/service/attendance"
	cashflowService "github.com/fieldops-hq/hrops-backend/internal/service/cashflow"
	leaveService "github.com/fieldops-hq/hrops-backend/internal/service/leave"
	overtimeService "github.com/fieldops-hq/hrops-backend/internal/service/overtime"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	capabilityRepo := postgresql.NewCapabilityRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	cashAdvanceRepo := postgresql.NewCashAdvanceRepository(db)
	liquidationRepo := postgresql.NewLiquidationRepository(db)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	case "minio":
		fileStorage, err = storage.NewMinioStorage(context.Background(), storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			log.Fatal("Failed to initialize minio storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authorizer := authz.NewAuthorizer(capabilityRepo)
	clk := clock.NewRealClock()

	ledger := leaveService.NewCreditLedger(employeeRepo)
	leaveSvc := leaveService.NewService(db, leaveRequestRepo, employeeRepo, ledger, authorizer, clk)
	attendanceSvc := attendanceService.NewService(sessionRepo, employeeRepo, authorizer, clk, cfg.Attendance.AllowConcurrentSessions)
	overtimeSvc := overtimeService.NewService(db, overtimeRepo, employeeRepo, authorizer, clk)
	advanceSvc := cashflowService.NewAdvanceService(db, cashAdvanceRepo, employeeRepo, authorizer, clk)
	liquidationSvc := cashflowService.NewLiquidationService(db, liquidationRepo, cashAdvanceRepo, employeeRepo, fileStorage, authorizer, clk)

	router := appHTTP.NewRouter(
		cfg.App,
		jwtService,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewOvertimeHandler(overtimeSvc),
		appHTTP.NewCashFlowHandler(advanceSvc, liquidationSvc),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Println("Starting server on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
