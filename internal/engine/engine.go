package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/ssconv/internal/config"
	"github.com/ivlev/ssconv/internal/decoder"
	"github.com/ivlev/ssconv/internal/loader"
	"github.com/ivlev/ssconv/internal/logging"
	"github.com/ivlev/ssconv/internal/motion"
	"github.com/ivlev/ssconv/internal/saver"
	"github.com/ivlev/ssconv/internal/system"
)

// Project описывает одну конвертацию: документ анимации -> кадры -> файл формата.
type Project struct {
	Config *config.Config
	// Out получает консольный вывод. По умолчанию os.Stdout.
	Out io.Writer
	// BenchmarkLog: файл, куда дописывается строка отчёта при ShowStats.
	BenchmarkLog string

	outputPath string
}

func NewProject(cfg *config.Config) *Project {
	return &Project{
		Config:       cfg,
		Out:          os.Stdout,
		BenchmarkLog: "benchmark.log",
	}
}

// OutputPath возвращает итоговый путь результата (после Run).
func (p *Project) OutputPath() string {
	if p.outputPath != "" {
		return p.outputPath
	}
	if p.Config.OutputPath != "" {
		return p.Config.OutputPath
	}
	return system.OutputPath(p.Config.InputPath, saver.Extension(p.Config.Format))
}

// Run выполняет конвертацию. Файл результата пишется целиком или не
// пишется вовсе.
func (p *Project) Run(ctx context.Context) error {
	startTime := time.Now()
	var loadEnd, decodeEnd, saveEnd time.Time

	if err := p.Config.Validate(); err != nil {
		return err
	}

	host := system.ReadHostStats()
	workers := p.Config.Workers
	if workers == 0 {
		workers = host.DefaultWorkers()
	}

	s, err := saver.New(p.Config.Format, p.saverOptions(workers))
	if err != nil {
		return err
	}

	m, err := loader.Load(p.Config.InputPath, p.Config.ImageDir)
	if err != nil {
		return fmt.Errorf("ошибка чтения анимации: %w", err)
	}
	loadEnd = time.Now()
	logging.Logger().Info("document loaded", "path", p.Config.InputPath, "parts", m.Tree.Len(), "frames", m.TotalFrames())

	p.outputPath = p.OutputPath()

	fmt.Fprintln(p.Out, "--- [PROJECT: SSCONV] ---")
	fmt.Fprintf(p.Out, "[*] Источник: %s | Частей: %d | Кадров: %d @ %d FPS\n", p.Config.InputPath, m.Tree.Len(), m.TotalFrames(), m.FPS)
	fmt.Fprintf(p.Out, "[*] Формат: %s | Кодировка: %s | Потоки: %d\n", p.Config.Format, p.Config.Encoding, workers)
	fmt.Fprintln(p.Out, "-----------------------------")

	frames, err := decoder.New(m, s.Decoding()).DecodeAll(ctx, workers)
	if err != nil {
		return fmt.Errorf("ошибка декодирования кадров: %w", err)
	}
	decodeEnd = time.Now()

	buf := system.GetBuffer(sizeHint(m))
	defer system.PutBuffer(buf)

	if err := s.Save(ctx, buf, m, frames); err != nil {
		return fmt.Errorf("ошибка сохранения %s: %w", p.Config.Format, err)
	}
	if err := system.WriteFileAtomic(p.outputPath, buf.Bytes()); err != nil {
		return fmt.Errorf("ошибка записи результата: %w", err)
	}
	saveEnd = time.Now()
	logging.Logger().Info("output written", "path", p.outputPath, "bytes", buf.Len())

	if p.Config.ShowStats {
		p.report(m, host, buf.Len(), startTime, loadEnd, decodeEnd, saveEnd)
	}
	return nil
}

func (p *Project) saverOptions(workers int) saver.Options {
	return saver.Options{
		Prefix:               p.Config.Prefix,
		Creator:              p.Config.Creator,
		Encoding:             p.Config.Encoding,
		BigEndian:            p.Config.BigEndian,
		AffineTransformation: p.Config.AffineTransformation,
		KeepImagePaths:       p.Config.KeepImagePaths,
		NoSuffix:             p.Config.NoSuffix,
		RootOrigin:           p.Config.RootOrigin,
		Workers:              workers,
	}
}

// sizeHint даёт грубую оценку размера результата для выбора буфера из пула.
func sizeHint(m *motion.Motion) int {
	return m.TotalFrames() * m.Tree.Len() * 48
}

func (p *Project) report(m *motion.Motion, host system.HostStats, size int, start, loadEnd, decodeEnd, saveEnd time.Time) {
	totalTime := saveEnd.Sub(start)
	loadTime := loadEnd.Sub(start)
	decodeTime := decodeEnd.Sub(loadEnd)
	saveTime := saveEnd.Sub(decodeEnd)
	fps := float64(m.TotalFrames()) / totalTime.Seconds()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.3fs\n"+
			"Loading: %.3fs\n"+
			"Decoding: %.3fs\n"+
			"Saving: %.3fs\n"+
			"Output: %s\n"+
			"Effective FPS: %.2f\n"+
			"Host: %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, totalTime.Seconds(), loadTime.Seconds(), decodeTime.Seconds(), saveTime.Seconds(),
		system.FormatBytes(uint64(size)), fps, host,
	)
	fmt.Fprint(p.Out, report)

	if p.BenchmarkLog == "" {
		return
	}
	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Format: %s | Frames: %d | Total: %.3fs | Decode: %.3fs | Save: %.3fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.InputPath),
		p.Config.Format,
		m.TotalFrames(),
		totalTime.Seconds(),
		decodeTime.Seconds(),
		saveTime.Seconds(),
		fps,
	)

	f, err := os.OpenFile(p.BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Fprintf(p.Out, "[!] Не удалось записать %s: %v\n", p.BenchmarkLog, err)
	}
}

// WriteTemplate создаёт документ-заготовку с именем анимации по имени файла.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("файл %s уже существует", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return loader.Write(loader.Sample(name), path)
}
