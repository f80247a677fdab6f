package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pagedb/pagedb/internal/conf"
	"github.com/pagedb/pagedb/internal/logger"
	"github.com/pagedb/pagedb/internal/storage/buffer"
	"github.com/pagedb/pagedb/internal/storage/file"
)

func main() {
	configPath := flag.String("config", "", "path to ini config file")
	flag.Parse()

	cfg := conf.NewCfg().Load(*configPath)
	if err := logger.InitLogger(logger.LogConfig{
		InfoLogPath: cfg.LogInfos,
		LogLevel:    cfg.LogLevel,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Fatalf("create data dir %s: %v", cfg.DataDir, err)
	}

	df, err := file.Open(filepath.Join(cfg.DataDir, "pagedb.dat"))
	if err != nil {
		logger.Fatalf("open data file: %v", err)
	}
	defer df.Close()

	pool := buffer.NewBufferPool(cfg.PoolSize)
	logger.Infof("buffer pool ready: %d frames, data file %s", pool.Size(), df.Filename())

	pageNo, p, err := pool.NewPage(df)
	if err != nil {
		logger.Fatalf("allocate page: %v", err)
	}
	copy(p.Data[:], []byte("hello, pagedb"))
	if err := pool.UnpinPage(df, pageNo, true); err != nil {
		logger.Fatalf("unpin page %d: %v", pageNo, err)
	}

	p2, err := pool.FetchPage(df, pageNo)
	if err != nil {
		logger.Fatalf("fetch page %d: %v", pageNo, err)
	}
	logger.Infof("page %d: %q", pageNo, string(p2.Data[:13]))
	if err := pool.UnpinPage(df, pageNo, false); err != nil {
		logger.Fatalf("unpin page %d: %v", pageNo, err)
	}

	if err := pool.FlushFile(df); err != nil {
		logger.Fatalf("flush %s: %v", df.Filename(), err)
	}

	fmt.Print(pool.DebugDump())
}
