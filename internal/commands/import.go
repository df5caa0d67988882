package commands

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/formchat/internal/browser"
	"github.com/diogo/formchat/internal/config"
)

type importOptions struct {
	browser string
	list    bool
}

// NewImportSessionCmd creates the import-session command
func NewImportSessionCmd(deps *Dependencies, opts *globalOptions) *cobra.Command {
	imp := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import-session [path]",
		Short: "Import backend session cookies",
		Long: `Import the chat backend's session cookies so a conversation started
elsewhere can continue here. Enable persist_session to use them.

From a JSON file, either:
1. A list of objects: [{"name": "session", "value": "..."}]
2. A simple dictionary: {"session": "..."}

Or from a local browser profile with --browser (auto, chrome, chromium,
firefox, edge, opera). The cookies are looked up for the host of base_url.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if imp.list {
				return runListBrowsers(deps)
			}
			if imp.browser != "" {
				return runImportFromBrowser(cmd.Context(), deps, opts, imp.browser)
			}
			if len(args) == 0 {
				return fmt.Errorf("a file path or --browser is required")
			}
			return runImportSession(deps, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&imp.browser, "browser", "b", "", "Read cookies from a browser profile")
	cmd.Flags().BoolVar(&imp.list, "list", false, "List browsers with readable cookie stores")

	return cmd
}

func runImportSession(deps *Dependencies, opts *globalOptions, sourcePath string) error {
	cfg, err := opts.settings()
	if err != nil {
		return err
	}

	s, err := config.ImportSession(sourcePath, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to import session: %w", err)
	}

	sessionPath, _ := config.GetSessionPath()
	fmt.Fprintf(deps.Stdout, "Imported %d cookies to %s\n", s.Len(), sessionPath)
	return nil
}

func runImportFromBrowser(ctx context.Context, deps *Dependencies, opts *globalOptions, name string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := browser.ParseBrowser(name)
	if err != nil {
		return err
	}

	cfg, err := opts.settings()
	if err != nil {
		return err
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", cfg.BaseURL, err)
	}

	result, err := deps.ExtractCookies(ctx, b, u.Hostname())
	if err != nil {
		return fmt.Errorf("failed to read browser cookies: %w", err)
	}

	if err := config.SaveSession(config.NewSession(cfg.BaseURL, result.Cookies)); err != nil {
		return err
	}

	sessionPath, _ := config.GetSessionPath()
	fmt.Fprintf(deps.Stdout, "Imported %d cookies from %s to %s\n", len(result.Cookies), result.BrowserName, sessionPath)
	return nil
}

func runListBrowsers(deps *Dependencies) error {
	available := browser.ListAvailableBrowsers()
	if len(available) == 0 {
		fmt.Fprintln(deps.Stdout, "No browser cookie stores found")
		return nil
	}
	fmt.Fprintln(deps.Stdout, strings.Join(available, "\n"))
	return nil
}
