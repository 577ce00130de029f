// Command rxctl drives a running prescription front end from the terminal.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rxintel/adapters/frontapi"
	"rxintel/domain/analysis"
	"rxintel/internal"
	"rxintel/internal/frontend"
)

const defaultURL = "http://localhost:3000"

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// cli carries the persistent flags and the streams commands write to.
type cli struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	url     string
	output  string
	timeout time.Duration
	quiet   bool
	verbose bool
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	app := &cli{in: in, out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "rxctl",
		Short:         "Analyze prescriptions through a running front end",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validFormat(app.output)
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	url := os.Getenv("RX_FRONTEND_URL")
	if url == "" {
		url = defaultURL
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.url, "url", url, "Front end base URL (env RX_FRONTEND_URL)")
	flags.StringVarP(&app.output, "output", "o", formatText, "Output format: text|json|yaml")
	flags.DurationVar(&app.timeout, "timeout", 5*time.Minute, "Request timeout")
	flags.BoolVarP(&app.quiet, "quiet", "q", false, "Suppress progress and notifications")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "Log controller activity to stderr")

	rootCmd.AddCommand(
		app.newTextCmd(),
		app.newImageCmd(),
		app.newContactCmd(),
		app.newHealthCmd(),
	)
	return rootCmd
}

// session builds a controller over a terminal view talking to the front end.
func (a *cli) session() (*frontend.Controller, *termView) {
	view := newTermView(a.errOut, a.quiet)
	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError)
	if a.verbose {
		logger = internal.NewLoggerTo(a.errOut, internal.LogLevelDebug)
	}
	ctrl := frontend.New(view, frontapi.NewClient(a.url, a.timeout), frontend.Options{Logger: logger})
	return ctrl, view
}

func (a *cli) newTextCmd() *cobra.Command {
	var file, save string

	cmd := &cobra.Command{
		Use:   "text [prescription text...]",
		Short: "Analyze prescription text",
		Long: `Analyze prescription text. The text is taken from the arguments, from --file,
or from stdin when neither is given.

Example: rxctl text "Amoxicillin 500mg orally three times daily" -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readText(args, file)
			if err != nil {
				return err
			}
			ctrl, view := a.session()
			if err := ctrl.SubmitText(cmd.Context(), text); err != nil {
				return err
			}
			return a.finish(ctrl, view, save)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read text from file (- for stdin)")
	cmd.Flags().StringVar(&save, "save", "", "Also save results to this path (.json or .xlsx)")
	return cmd
}

func (a *cli) newImageCmd() *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "image [path]",
		Short: "Analyze a prescription image or PDF",
		Long: `Upload a prescription image (png, jpg, jpeg, gif) or PDF for OCR analysis.

Example: rxctl image scan.jpg --save results.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upload, err := readUpload(args[0])
			if err != nil {
				return err
			}
			ctrl, view := a.session()
			ctrl.SelectFiles([]analysis.Upload{upload})
			if !a.quiet {
				fmt.Fprintln(a.errOut, view.label)
			}
			if err := ctrl.SubmitImage(cmd.Context()); err != nil {
				return err
			}
			return a.finish(ctrl, view, save)
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "Also save results to this path (.json or .xlsx)")
	return cmd
}

func (a *cli) newContactCmd() *cobra.Command {
	var req analysis.ContactRequest

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the contact form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _ := a.session()
			return ctrl.SubmitContact(cmd.Context(), req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Your email address")
	cmd.Flags().StringVarP(&req.Message, "message", "m", "", "Message body")
	return cmd
}

func (a *cli) newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check front end, backend, NER and Textract status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, _ := a.session()
			snap := ctrl.CheckSystemHealth(cmd.Context())
			return printHealth(a.out, a.output, snap)
		},
	}
}

// finish prints the analysis and optionally saves it the way the results panel
// offers downloads.
func (a *cli) finish(ctrl *frontend.Controller, view *termView, save string) error {
	if save != "" {
		download := ctrl.DownloadResults
		if strings.EqualFold(filepath.Ext(save), ".xlsx") {
			download = ctrl.DownloadWorkbook
		}
		if err := download(); err != nil {
			return err
		}
		if err := os.WriteFile(save, view.artifact.data, 0o644); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
	}
	result := ctrl.CurrentResult()
	if result == nil {
		result = &analysis.Result{}
	}
	return printResult(a.out, a.output, result)
}

func (a *cli) readText(args []string, file string) (string, error) {
	if len(args) > 0 && file != "" {
		return "", fmt.Errorf("give text as arguments or --file, not both")
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	var r io.Reader = a.in
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", file, err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return string(data), nil
}

func readUpload(path string) (analysis.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.Upload{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return analysis.Upload{Name: filepath.Base(path), Size: int64(len(data)), Content: data}, nil
}
