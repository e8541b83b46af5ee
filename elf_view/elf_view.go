// The elf_view executable is yet-another-ELF-viewer program joining the likes
// of objdump and readelf, but is probably less complete. It exists primarily
// to facilitate testing of the elfdoc package.
//
// Example usage: ./elf_view sections <elf_file>
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yalue/elfdoc"
	"github.com/yalue/elfdoc/internal/config"
	"github.com/yalue/elfdoc/internal/logging"
)

type app struct {
	configFile string
	logLevel   string
	logFormat  string
	config     *config.Config
	logger     *logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "elf_view",
		Short: "Print the structure of an ELF file",
		Long: `elf_view decodes an ELF file's header, program headers, and
section headers, and prints them along with section names and contents.

Settings may also come from elf_view.yaml or ELF_VIEW_* environment
variables, e.g. ELF_VIEW_REQUIRE_VALID=true.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	cmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "",
		"Configuration file path")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "",
		"Log format (text, json)")

	cmd.AddCommand(a.newSummaryCmd())
	cmd.AddCommand(a.newHeaderCmd())
	cmd.AddCommand(a.newSectionsCmd())
	cmd.AddCommand(a.newSegmentsCmd())
	cmd.AddCommand(a.newStringsCmd())
	cmd.AddCommand(a.newDumpCmd())
	return cmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	c, e := config.Load(a.configFile)
	if e != nil {
		return fmt.Errorf("failed to load configuration: %w", e)
	}
	if a.logLevel != "" {
		c.Log.Level = logging.ParseLevel(a.logLevel)
	}
	if a.logFormat != "" {
		c.Log.Format = logging.ParseFormat(a.logFormat)
	}
	c.Log.Output = cmd.ErrOrStderr()
	a.config = c
	a.logger = logging.New(c.Log)
	return nil
}

// Reads and parses the file at path, applying the size limit and validity
// requirement from the configuration.
func (a *app) load(path string) (*elfdoc.ELFDocument, error) {
	log := a.logger.WithComponent("elf_view").WithField("file", path)
	info, e := os.Stat(path)
	if e != nil {
		return nil, fmt.Errorf("Failed reading input file: %w", e)
	}
	if info.Size() > a.config.MaxFileSize {
		return nil, fmt.Errorf("Input file is %d bytes, the limit is %d",
			info.Size(), a.config.MaxFileSize)
	}
	raw, e := os.ReadFile(path)
	if e != nil {
		return nil, fmt.Errorf("Failed reading input file: %w", e)
	}
	doc, e := elfdoc.Parse(raw, elfdoc.WithLogger(
		a.logger.WithComponent("parser").WithField("file", path)))
	if e != nil {
		return nil, fmt.Errorf("Failed parsing the input file: %w", e)
	}
	if !doc.IsValid() {
		if a.config.RequireValid {
			return nil, fmt.Errorf("%s doesn't have a valid ELF signature",
				path)
		}
		log.Warn("File doesn't have a valid ELF signature")
	}
	h := doc.Header()
	log.Infof("Successfully parsed file: %s", &h)
	return doc, nil
}

// Wraps a per-document printer into a cobra command taking one file.
func (a *app) fileCommand(use, short string,
	print func(w io.Writer, doc *elfdoc.ELFDocument) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <elf_file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, e := a.load(args[0])
			if e != nil {
				return e
			}
			return print(cmd.OutOrStdout(), doc)
		},
	}
}

func (a *app) newSummaryCmd() *cobra.Command {
	return a.fileCommand("summary", "Print the segment count and section names",
		func(w io.Writer, doc *elfdoc.ELFDocument) error {
			_, e := io.WriteString(w, doc.Summarize())
			return e
		})
}

func (a *app) newHeaderCmd() *cobra.Command {
	return a.fileCommand("header", "Print the ELF file header", printHeader)
}

func (a *app) newSectionsCmd() *cobra.Command {
	return a.fileCommand("sections", "Print a list of sections", printSections)
}

func (a *app) newSegmentsCmd() *cobra.Command {
	return a.fileCommand("segments", "Print a list of segments (program "+
		"headers)", printSegments)
}

func (a *app) newStringsCmd() *cobra.Command {
	return a.fileCommand("strings", "Print the contents of the string tables",
		printStrings)
}

func (a *app) newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <elf_file> <section_index>",
		Short: "Write the binary contents of a section to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, e := strconv.Atoi(args[1])
			if e != nil {
				return fmt.Errorf("Invalid section index %q: %w", args[1], e)
			}
			doc, e := a.load(args[0])
			if e != nil {
				return e
			}
			section, e := doc.Section(index)
			if e != nil {
				return fmt.Errorf("Failed dumping section contents: %w", e)
			}
			_, e = cmd.OutOrStdout().Write(section.Payload)
			return e
		},
	}
}

func printHeader(w io.Writer, doc *elfdoc.ELFDocument) error {
	h := doc.Header()
	_, e := fmt.Fprintf(w, "%s\n"+
		"Valid signature: %t\n"+
		"ABI: %d, version %d\n"+
		"ELF version: %d\n"+
		"Entry point: 0x%x\n"+
		"Flags: 0x%x\n"+
		"Header size: %d\n"+
		"Program headers: %d entries of %d bytes at offset 0x%x\n"+
		"Section headers: %d entries of %d bytes at offset 0x%x\n"+
		"Section names index: %d\n",
		&h, h.IsValid(), h.ABI, h.ABIVersion, h.ELFVersion, h.EntryPC,
		h.Flags, h.ThisSize, h.ProgramHeaderEntryCount,
		h.ProgramHeaderEntrySize, h.ProgramHeaderStart,
		h.SectionHeaderEntryCount, h.SectionHeaderEntrySize,
		h.SectionHeaderStart, h.SectionNamesIndex)
	return e
}

func printSections(w io.Writer, doc *elfdoc.ELFDocument) error {
	for i, s := range doc.Sections() {
		_, e := fmt.Fprintf(w, "%d. %s: %s\n", i, s.Name, &s.Header)
		if e != nil {
			return e
		}
	}
	return nil
}

func printSegments(w io.Writer, doc *elfdoc.ELFDocument) error {
	for i, p := range doc.Programs() {
		_, e := fmt.Fprintf(w, "%d. %s\n", i, &p)
		if e != nil {
			return e
		}
	}
	return nil
}

func printStrings(w io.Writer, doc *elfdoc.ELFDocument) error {
	sections := doc.Sections()
	for i := range sections {
		if !doc.IsStringTable(i) {
			continue
		}
		splitStrings, e := doc.StringTable(i)
		if e != nil {
			return fmt.Errorf("Couldn't read string table: %w", e)
		}
		fmt.Fprintf(w, "%d strings in section %s:\n", len(splitStrings),
			sections[i].Name)
		for j, s := range splitStrings {
			fmt.Fprintf(w, "  %d. %s\n", j, s)
		}
	}
	return nil
}

func main() {
	if e := newRootCmd().Execute(); e != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", e)
		os.Exit(1)
	}
}
