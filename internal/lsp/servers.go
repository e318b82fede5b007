package lsp

// ServerConfig is the command line that starts a language server on stdio.
type ServerConfig struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// DefaultServers returns built-in language server mappings keyed by LSP
// language identifier.
func DefaultServers() map[string]ServerConfig {
	return map[string]ServerConfig{
		"go":         {Command: "gopls"},
		"typescript": {Command: "typescript-language-server", Args: []string{"--stdio"}},
		"javascript": {Command: "typescript-language-server", Args: []string{"--stdio"}},
		"python":     {Command: "pyright-langserver", Args: []string{"--stdio"}},
		"rust":       {Command: "rust-analyzer"},
		"c":          {Command: "clangd"},
		"cpp":        {Command: "clangd"},
		"java":       {Command: "jdtls"},
		"lua":        {Command: "lua-language-server"},
		"json":       {Command: "vscode-json-language-server", Args: []string{"--stdio"}},
	}
}

// MergeServers overlays overrides on base. An override with an empty
// command disables the language.
func MergeServers(base, overrides map[string]ServerConfig) map[string]ServerConfig {
	merged := make(map[string]ServerConfig, len(base)+len(overrides))
	for language, cfg := range base {
		merged[language] = cfg
	}
	for language, cfg := range overrides {
		if cfg.Command == "" {
			delete(merged, language)
			continue
		}
		merged[language] = cfg
	}
	return merged
}
