package main

import (
	"context"
	"os"
	"strconv"

	"emperror.dev/errors"
	gh "github.com/google/go-github/v80/github"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/actionkit-io/actionkit/action"
	"github.com/actionkit-io/actionkit/github"
)

// inputs declared in the composite action's metadata.
type inputs struct {
	Repository string
	TagName    string
	Token      string
}

var _ action.Inputs = inputs{}

func (in inputs) Validate() error {
	if err := action.Require("github-repository", "tag-name"); err != nil {
		return err
	}
	if in.Token == "" {
		return errors.New("no GitHub token provided (set the github-token input or GITHUB_TOKEN)")
	}
	return nil
}

func readInputs() inputs {
	token := action.GetInput("github-token")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	return inputs{
		Repository: action.GetInput("github-repository"),
		TagName:    action.GetInput("tag-name"),
		Token:      token,
	}
}

var rootCmd = &cobra.Command{
	Use:   "release-notes",
	Short: "Composite action step that publishes a changelog URL for a new tag",

	// Don't automatically print errors or usage information; failures are
	// reported through the runner's annotation channel instead.
	SilenceErrors: true,
	SilenceUsage:  true,

	// Run setup before the command body. An unparsable verbose input is
	// treated as false.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := strconv.ParseBool(action.GetInput("verbose")); verbose {
			logrus.SetLevel(logrus.DebugLevel)
			logrus.Debug("enabled debug logging")
		}
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		in := readInputs()
		if err := in.Validate(); err != nil {
			return err
		}

		ctx := cmd.Context()
		manager := github.New(newClient(ctx, in.Token))
		manager.StoreRepository(ctx, in.Repository)
		if manager.Repository() == nil {
			return errors.Errorf("unable to resolve repository %q", in.Repository)
		}
		manager.StoreLatestRelease(ctx, nil)

		url := manager.ChangeURL(in.TagName, nil, nil)
		if err := action.SetOutput("changelog-url", url); err != nil {
			return errors.Wrap(err, "unable to write changelog-url output")
		}
		return nil
	},
}

// newClient builds the authenticated API client that is injected into the
// manager. Client construction stays on the caller side; the library itself
// never creates or authenticates clients.
func newClient(ctx context.Context, token string) *gh.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return gh.NewClient(oauth2.NewClient(ctx, src))
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		action.SetFailed(err.Error())
		os.Exit(1)
	}
}
