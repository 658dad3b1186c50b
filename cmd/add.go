package cmd

import (
	"fmt"
	"strings"

	"cpm/config/models"
	"cpm/config/validation"
	"cpm/internal/providers"

	"github.com/spf13/cobra"
)

// customProvider is the select entry for a profile without a preset
const customProvider = "custom"

// Flag values
var (
	addType        string
	addProvider    string
	addAPIKey      string
	addBaseURL     string
	addModel       string
	addDescription string
)

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addType, "type", "t", "", "Profile type: api or oauth")
	addCmd.Flags().StringVarP(&addProvider, "provider", "p", "", "Provider preset ("+strings.Join(providers.List(), ", ")+")")
	addCmd.Flags().StringVarP(&addAPIKey, "api-key", "k", "", "API key")
	addCmd.Flags().StringVarP(&addBaseURL, "base-url", "u", "", "Base URL of a proxy or local server")
	addCmd.Flags().StringVarP(&addModel, "model", "m", "", "Model override")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Profile description")
}

// addRequest is the resolved input of an add
type addRequest struct {
	name        string
	kind        models.Kind
	provider    string
	apiKey      string
	baseURL     string
	model       string
	description string
}

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new profile",
	Long: `Add a new profile.

Interactive (recommended):
  cpm add

With flags:
  cpm add work --api-key sk-ant-xxx
  cpm add local --provider ollama --model qwen3-coder
  cpm add proxy --provider litellm --base-url http://localhost:4000 --api-key sk-xxx
  cpm add pro --type oauth

An oauth profile imports the login the assistant currently uses.
The first profile added becomes active.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var req addRequest
		var err error
		if len(args) == 1 {
			req, err = addRequestFromFlags(args[0])
		} else {
			if !stdinIsTerminal() {
				return fmt.Errorf("a profile name is required when not running in a terminal: cpm add <name> [flags]")
			}
			req, err = promptAddRequest()
		}
		if err != nil {
			if err == errAborted {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			return err
		}

		a, err := newApp("")
		if err != nil {
			return err
		}
		return runAdd(cmd, a, req)
	},
}

func parseKind(value string) (models.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(models.KindAPI):
		return models.KindAPI, nil
	case string(models.KindOAuth):
		return models.KindOAuth, nil
	}
	return "", fmt.Errorf("unknown profile type %q: use api or oauth", value)
}

func addRequestFromFlags(name string) (addRequest, error) {
	kind, err := parseKind(addType)
	if err != nil {
		return addRequest{}, err
	}
	req := addRequest{
		name:        name,
		kind:        kind,
		provider:    addProvider,
		apiKey:      addAPIKey,
		baseURL:     addBaseURL,
		model:       addModel,
		description: addDescription,
	}
	if req.provider != "" {
		provider, err := providers.Get(req.provider)
		if err != nil {
			return addRequest{}, err
		}
		if req.baseURL == "" {
			req.baseURL = provider.DefaultBaseURL()
		}
		req.baseURL = provider.NormalizeConfig(req.baseURL)
	}
	return req, nil
}

func promptAddRequest() (addRequest, error) {
	input := validation.NewInputValidator()
	var req addRequest

	name, err := promptText("Profile name", "", 0, input.ValidateName)
	if err != nil {
		return req, err
	}
	req.name = name

	kind, err := promptSelect("Profile type", []string{string(models.KindAPI), string(models.KindOAuth)})
	if err != nil {
		return req, err
	}
	req.kind = models.Kind(kind)

	if req.kind == models.KindAPI {
		provider, err := promptSelect("Provider", append(providers.List(), customProvider))
		if err != nil {
			return req, err
		}

		defaultURL := ""
		keyLabel := "API key (empty for none)"
		if provider != customProvider {
			req.provider = provider
			if p, err := providers.Get(provider); err == nil {
				defaultURL = p.DefaultBaseURL()
				if p.RequiresAPIKey() {
					keyLabel = p.Description() + " API key"
				}
			}
		}

		if req.apiKey, err = promptText(keyLabel, "", '*', nil); err != nil {
			return req, err
		}
		if req.baseURL, err = promptText("Base URL (empty for default)", defaultURL, 0, input.ValidateURL); err != nil {
			return req, err
		}
		if p, err := providers.Get(req.provider); err == nil {
			req.baseURL = p.NormalizeConfig(req.baseURL)
		}
	}

	if req.model, err = promptText("Model (empty for default)", "", 0, input.ValidateModelName); err != nil {
		return req, err
	}
	if req.description, err = promptText("Description", "", 0, nil); err != nil {
		return req, err
	}
	return req, nil
}

func runAdd(cmd *cobra.Command, a *app, req addRequest) error {
	out := cmd.OutOrStdout()

	if req.kind == models.KindOAuth {
		p, activated, err := a.manager.AddOAuth(req.name, req.description, req.model)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Added OAuth profile %s (%s)", p.Name, p.OAuth.EmailAddress)))
		if activated {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ %s is the first profile and is now active", p.Name)))
			printEnvHint(cmd, a)
			return nil
		}
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Run 'cpm switch %s' to use it.", p.Name)))
		return nil
	}

	p := models.NewAPIProfile(req.name, req.description, strings.TrimSpace(req.apiKey), strings.TrimSpace(req.baseURL), req.model)
	activated, err := a.manager.Add(p, req.provider)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Added profile %s", p.Name)))
	if activated {
		fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ %s is the first profile and is now active", p.Name)))
		printEnvHint(cmd, a)
	}
	return nil
}
