package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/ivlev/ssconv/internal/config"
	"github.com/ivlev/ssconv/internal/engine"
	"github.com/ivlev/ssconv/internal/logging"
	"github.com/ivlev/ssconv/internal/saver"
	"github.com/ivlev/ssconv/internal/system"
)

// Задаётся при сборке: -ldflags "-X main.buildVersion=..."
var buildVersion = "dev"

func main() {
	configPtr := flag.String("config", "", "YAML-файл настроек (флаги перекрывают его значения)")
	inputPtr := flag.String("input", "", "Файл анимации (по умолчанию: самый свежий .yaml в input/)")
	outputPtr := flag.String("output", "", "Файл результата (если пусто, рядом со входом с расширением формата)")
	formatPtr := flag.String("format", "", "Формат вывода: "+strings.Join(saver.Formats(), ", "))
	encodingPtr := flag.String("encoding", "", "Кодировка имён: utf8, utf8-bom, sjis")
	prefixPtr := flag.String("prefix", "", "Префикс меток и переменных (по умолчанию имя анимации)")
	creatorPtr := flag.String("creator", "", "Комментарий создателя в заголовке")
	workersPtr := flag.Int("workers", -1, "Потоки (0 - по числу ядер)")
	imageDirPtr := flag.String("image-dir", "", "Папка изображений для определения размеров (по умолчанию папка документа)")
	rootOriginPtr := flag.Bool("root-origin", false, "Помещать корневую часть в начало координат")
	affinePtr := flag.Bool("affine", false, "Не применять наследование: плеер считает иерархию сам")
	bigEndianPtr := flag.Bool("big-endian", false, "Двоичный вывод в big-endian")
	keepPathsPtr := flag.Bool("keep-image-paths", false, "Сохранять пути изображений целиком, а не только имя файла")
	noSuffixPtr := flag.Bool("no-suffix", false, "Без суффикса _animation у переменной JS")
	statsPtr := flag.Bool("stats", false, "Показать отчёт о производительности")
	verbosePtr := flag.Bool("verbose", false, "Подробный журнал в stderr")
	initPtr := flag.String("init", "", "Создать заготовку документа анимации по указанному пути и выйти")

	flag.Usage = func() { printUsage(flag.CommandLine.Output(), flag.CommandLine) }
	flag.Parse()

	if *verbosePtr {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *initPtr != "" {
		if err := engine.WriteTemplate(*initPtr); err != nil {
			log.Fatalf("[-] Ошибка создания заготовки: %v", err)
		}
		fmt.Printf("[+++] Заготовка создана: %s\n", *initPtr)
		return
	}

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		cfg = loaded
		fmt.Printf("[*] Настройки: %s\n", *configPtr)
	}

	// Флаги, заданные явно, перекрывают файл настроек
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "output":
			cfg.OutputPath = *outputPtr
		case "format":
			cfg.Format = *formatPtr
		case "encoding":
			cfg.Encoding = *encodingPtr
		case "prefix":
			cfg.Prefix = *prefixPtr
		case "creator":
			cfg.Creator = *creatorPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "image-dir":
			cfg.ImageDir = *imageDirPtr
		case "root-origin":
			cfg.RootOrigin = *rootOriginPtr
		case "affine":
			cfg.AffineTransformation = *affinePtr
		case "big-endian":
			cfg.BigEndian = *bigEndianPtr
		case "keep-image-paths":
			cfg.KeepImagePaths = *keepPathsPtr
		case "no-suffix":
			cfg.NoSuffix = *noSuffixPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		}
	})
	cfg.BuildVersion = buildVersion

	if cfg.InputPath == "" {
		latest, err := system.FindLatestDocument("input")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите документ анимации в input/ или укажите -input", err)
		}
		cfg.InputPath = latest
		fmt.Printf("[*] Выбран файл: %s\n", cfg.InputPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewProject(cfg)
	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", project.OutputPath())
}
