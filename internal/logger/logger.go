package logger

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"APAgingSuite/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const defaultRetentionSchedule = "0 2 * * *"

// LoggerService owns the process log file. It rotates the file by size and
// archives files older than the retention window on a cron schedule.
type LoggerService struct {
	Config            map[string]interface{}
	file              *os.File
	mu                sync.Mutex
	stopCh            chan struct{}
	wg                sync.WaitGroup
	currentLog        string
	maxFileBytes      int64
	retentionDays     int
	retentionSchedule string
	folderPath        string
	level             zerolog.Level
	console           bool
	scheduler         *cron.Cron
	zl                zerolog.Logger
}

func NewLoggerService(cfg map[string]interface{}) *LoggerService {
	level, err := zerolog.ParseLevel(config.String(cfg, "level", os.Getenv("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return &LoggerService{
		Config:            cfg,
		stopCh:            make(chan struct{}),
		maxFileBytes:      int64(config.Int(cfg, "max_file_mb", 0)) * 1024 * 1024,
		retentionDays:     config.Int(cfg, "retention_days", 0),
		retentionSchedule: config.String(cfg, "retention_schedule", defaultRetentionSchedule),
		folderPath:        config.String(cfg, "folder_path", "./logs"),
		level:             level,
		console:           config.Bool(cfg, "console", false),
		zl:                New(),
	}
}

func (l *LoggerService) Name() string {
	return "logger"
}

func (l *LoggerService) Start() error {
	l.mu.Lock()
	if err := os.MkdirAll(l.folderPath, 0755); err != nil {
		l.mu.Unlock()
		return err
	}
	logFile := l.nextLogFileName()
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.file = file
	l.currentLog = logFile

	var out io.Writer = l
	if l.console {
		out = zerolog.MultiLevelWriter(l, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	l.zl = zerolog.New(out).Level(l.level).With().Timestamp().Str("service", config.AppName).Logger()
	l.mu.Unlock()

	// stdlib log lines from libraries end up in the same file
	log.SetFlags(0)
	log.SetOutput(l.zl)

	if l.retentionDays > 0 {
		l.scheduler = cron.New()
		if _, err := l.scheduler.AddFunc(l.retentionSchedule, l.zipAndCleanOldLogs); err != nil {
			return fmt.Errorf("invalid retention_schedule %q: %w", l.retentionSchedule, err)
		}
		l.scheduler.Start()
	}

	l.wg.Add(1)
	go l.backgroundWorker()

	l.zl.Info().Str("file", logFile).Msg("logger started")
	return nil
}

func (l *LoggerService) Stop() error {
	close(l.stopCh)
	l.wg.Wait()
	if l.scheduler != nil {
		<-l.scheduler.Stop().Done()
	}
	l.zl.Info().Msg("logger stopping")
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Write sends p to the current log file, so rotation is invisible to writers.
func (l *LoggerService) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return os.Stderr.Write(p)
	}
	return l.file.Write(p)
}

// Logger returns the structured logger backed by this service.
func (l *LoggerService) Logger() zerolog.Logger {
	return l.zl
}

// CurrentFile is the path of the file being written.
func (l *LoggerService) CurrentFile() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentLog
}

func (l *LoggerService) nextLogFileName() string {
	timestamp := time.Now().Format("20060102_150405.000")
	return filepath.Join(l.folderPath, fmt.Sprintf("app_%s.log", timestamp))
}

func (l *LoggerService) rotateIfNeeded() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || l.maxFileBytes <= 0 {
		return false, nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() < l.maxFileBytes {
		return false, nil
	}
	newLog := l.nextLogFileName()
	file, err := os.OpenFile(newLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	l.file.Close()
	l.file = file
	l.currentLog = newLog
	return true, nil
}

func (l *LoggerService) backgroundWorker() {
	defer l.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			rotated, err := l.rotateIfNeeded()
			if err != nil {
				l.zl.Error().Err(err).Msg("log rotation failed")
			} else if rotated {
				l.zl.Info().Str("file", l.CurrentFile()).Msg("rotated log file")
			}
		}
	}
}

// zipAndCleanOldLogs moves log files older than the retention window into a
// dated zip archive.
func (l *LoggerService) zipAndCleanOldLogs() {
	if l.retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -l.retentionDays)
	files, err := os.ReadDir(l.folderPath)
	if err != nil {
		return
	}
	current := l.CurrentFile()

	var stale []string
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".log" {
			continue
		}
		fullPath := filepath.Join(l.folderPath, f.Name())
		info, err := os.Stat(fullPath)
		if err != nil || info.ModTime().After(cutoff) || fullPath == current {
			continue
		}
		stale = append(stale, fullPath)
	}
	if len(stale) == 0 {
		return
	}

	zipName := filepath.Join(l.folderPath, fmt.Sprintf("logs_%s.zip", time.Now().Format("20060102_150405")))
	zipFile, err := os.Create(zipName)
	if err != nil {
		l.zl.Error().Err(err).Msg("log archive failed")
		return
	}
	defer zipFile.Close()
	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	for _, fullPath := range stale {
		w, err := zipWriter.Create(filepath.Base(fullPath))
		if err != nil {
			continue
		}
		src, err := os.Open(fullPath)
		if err != nil {
			continue
		}
		_, err = io.Copy(w, src)
		src.Close()
		if err == nil {
			os.Remove(fullPath)
		}
	}
	l.zl.Info().Int("files", len(stale)).Str("archive", zipName).Msg("archived old logs")
}

// LogAudit records an audit line such as a proxied request.
func (l *LoggerService) LogAudit(msg string) {
	l.zl.Info().Bool("audit", true).Msg(msg)
}

var GlobalLogger *LoggerService

func SetGlobalLogger(l *LoggerService) {
	GlobalLogger = l
}
