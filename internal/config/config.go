package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config описывает одну конвертацию. Поля читаются из YAML-файла,
// флаги командной строки перекрывают их.
type Config struct {
	InputPath  string `yaml:"input"`
	OutputPath string `yaml:"output"`
	Format     string `yaml:"format"`
	Encoding   string `yaml:"encoding"`
	Prefix     string `yaml:"prefix"`
	Creator    string `yaml:"creator"`
	Workers    int    `yaml:"workers"`
	ImageDir   string `yaml:"imageDir"`

	RootOrigin           bool `yaml:"rootOrigin"`
	AffineTransformation bool `yaml:"affine"`
	BigEndian            bool `yaml:"bigEndian"`
	KeepImagePaths       bool `yaml:"keepImagePaths"`
	NoSuffix             bool `yaml:"noSuffix"`

	ShowStats    bool   `yaml:"stats"`
	BuildVersion string `yaml:"-"`
}

// Default возвращает настройки по умолчанию. Workers = 0 означает
// автоматический выбор по числу ядер.
func Default() *Config {
	return &Config{
		Format:   "ssba",
		Encoding: "utf8",
		Creator:  "ssconv",
	}
}

// Load читает YAML поверх значений по умолчанию.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("конфиг %s: %w", path, err)
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек. Имена формата и кодировки
// проверяет saver при создании.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("не указан входной файл")
	}
	if c.Workers < 0 {
		return fmt.Errorf("число потоков не может быть отрицательным: %d", c.Workers)
	}
	if c.Format == "" {
		return fmt.Errorf("не указан формат вывода")
	}
	return nil
}
