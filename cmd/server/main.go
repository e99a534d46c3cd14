package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/rVladislavrr/codes/internal/config"
	"github.com/rVladislavrr/codes/internal/handler"
	"github.com/rVladislavrr/codes/internal/repo"
	"github.com/rVladislavrr/codes/internal/router"
	"github.com/rVladislavrr/codes/internal/service"
	"github.com/rVladislavrr/codes/pkg/logger"
)

func main() {
	// 설정/로거 초기화
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logg := logger.New()

	// 저장소: DSN이 있으면 Postgres, 없으면 메모리
	archiveRepo := repo.NewArchiveRepoInMemory()
	if cfg.DatabaseURL != "" {
		ctx := context.Background()
		pool, err := repo.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pool.Close()
		if err := repo.Migrate(ctx, pool); err != nil {
			log.Fatal(err)
		}
		archiveRepo = repo.NewArchiveRepoPG(pool)
		logg.Infof("using postgres storage")
	} else {
		logg.Warnf("HUFF_DATABASE_URL not set, archives are kept in memory")
	}

	// 의존성 생성
	archiveSvc := service.NewArchiveService(archiveRepo, logg)
	archiveH := handler.NewArchiveHandler(archiveSvc, cfg.MaxUploadBytes)

	// Gin 라우터 생성 및 라우팅 구성
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Register(r, router.Dependencies{
		ArchiveHandler: archiveH,
	})

	addr := ":" + cfg.Port
	log.Printf("starting server at %s\n", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
