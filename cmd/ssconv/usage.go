package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/ivlev/ssconv/internal/saver"
)

// printUsage выводит справку: назначение, форматы вывода и флаги.
func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "ssconv %s: конвертер анимаций частей в покадровые данные для плееров.\n\n", buildVersion)
	fmt.Fprintf(w, "Использование:\n  %s [флаги]\n\n", fs.Name())
	fmt.Fprintln(w, "Форматы вывода (-format):")
	for _, name := range saver.Formats() {
		fmt.Fprintf(w, "  %-6s %s (%s)\n", name, saver.Describe(name), saver.Extension(name))
	}
	fmt.Fprintln(w, "Другие форматы (Corona, исходники на C) не поддерживаются.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Флаги:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
