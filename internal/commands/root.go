// Package commands provides CLI commands for formchat.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/diogo/formchat/internal/api"
	"github.com/diogo/formchat/internal/chat"
	"github.com/diogo/formchat/internal/config"
	"github.com/diogo/formchat/internal/logging"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalOptions are the flags shared by every command
type globalOptions struct {
	url      string
	logFile  string
	logLevel string
}

// settings loads the configuration and applies the flag overrides
func (o *globalOptions) settings() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if o.url != "" {
		cfg.BaseURL = strings.TrimRight(o.url, "/")
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

// runtime is what a chat turn needs: a client, a logger and the settings
type runtime struct {
	cfg    config.Config
	client api.ChatClientInterface
	logger *logrus.Logger
	closer io.Closer
}

// newRuntime builds the client and logger for cfg and restores the saved
// session when persist_session is on
func newRuntime(deps *Dependencies, cfg config.Config) (*runtime, error) {
	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	client := deps.Client
	if client == nil {
		c, err := api.NewClient(cfg.BaseURL,
			api.WithEndpoint(cfg.Endpoint),
			api.WithTimeout(time.Duration(cfg.Timeout())*time.Second),
		)
		if err != nil {
			_ = closer.Close()
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		client = c
	}

	rt := &runtime{cfg: cfg, client: client, logger: logger, closer: closer}
	restoreSession(rt)
	return rt, nil
}

// widget creates a chat widget over the runtime's client
func (rt *runtime) widget() *chat.Widget {
	return chat.New(rt.client, chat.WithLogger(rt.logger))
}

// close saves the session when persist_session is on and releases resources
func (rt *runtime) close() {
	persistSession(rt)
	rt.client.Close()
	_ = rt.closer.Close()
}

// NewRootCmd creates the formchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	opts := &globalOptions{}
	send := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "formchat [message]",
		Short: "Terminal client for a form-post chat backend",
		Long: `formchat talks to a chat backend that takes one form field per turn
(POST /process_chat with user_input=...) and answers with a reply, a list
of options, or an error.

Examples:
  formchat chat                         Start the interactive chat window
  formchat "Hello"                      Send one message and print the reply
  formchat --option "Option A"          Send an option choice
  formchat -f message.txt               Read the message from a file
  echo hi | formchat                    Read the message from stdin
  formchat --url http://host:5000 chat  Talk to another backend
  formchat config set persist_session true`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "formchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if send.option != "" {
				return runSend(cmd.Context(), deps, opts, send, send.option, chat.PathOption)
			}

			if send.file != "" {
				data, err := os.ReadFile(send.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runSend(cmd.Context(), deps, opts, send, string(data), chat.PathPrimary)
			}

			if len(args) > 0 {
				return runSend(cmd.Context(), deps, opts, send, args[0], chat.PathPrimary)
			}

			if hasPipedInput(deps.Stdin) {
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return runSend(cmd.Context(), deps, opts, send, stdinMessage(data), chat.PathPrimary)
			}

			return cmd.Help()
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVar(&opts.url, "url", "", "Chat backend base URL (default from config)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", `Diagnostic log file ("-" for stderr)`)
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVarP(&send.file, "file", "f", "", "Read the message from a file")
	cmd.Flags().StringVar(&send.option, "option", "", "Send TEXT as an option choice")
	cmd.Flags().BoolVar(&send.raw, "raw", false, "Print only the reply text")
	cmd.Flags().StringVarP(&send.output, "output", "o", "", "Save the reply text to a file")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps, opts))
	cmd.AddCommand(NewImportSessionCmd(deps, opts))

	return cmd
}

// rootCmd is the production command tree
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "formchat"))
		os.Exit(1)
	}
}

// stdinMessage drops the single line terminator that echo and heredocs add.
// Everything else, including further blank lines, is sent unchanged.
func stdinMessage(data []byte) string {
	s := string(data)
	if strings.HasSuffix(s, "\r\n") {
		return strings.TrimSuffix(s, "\r\n")
	}
	return strings.TrimSuffix(s, "\n")
}

// hasPipedInput reports whether r is a pipe or file rather than a terminal
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
