package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// CompletionShells lists the shells GenerateCompletion supports.
var CompletionShells = []string{"bash", "zsh", "fish"}

type completionData struct {
	Program string
	Flags   []string
	Modes   []string
	Shells  []string
}

func (d completionData) DashedFlags() string {
	dashed := make([]string, len(d.Flags))
	for i, f := range d.Flags {
		dashed[i] = "-" + f
	}
	return strings.Join(dashed, " ")
}

var completionTemplates = map[string]*template.Template{
	"bash": completionTemplate("bash", `# bash completion for {{.Program}}
_{{.Program}}_completions() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    case "${prev}" in
        -mode) COMPREPLY=( $(compgen -W "{{join .Modes " "}}" -- "${cur}") ); return 0 ;;
        -completion) COMPREPLY=( $(compgen -W "{{join .Shells " "}}" -- "${cur}") ); return 0 ;;
        -output|-o|-calibration-profile) COMPREPLY=( $(compgen -f -- "${cur}") ); return 0 ;;
    esac
    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "{{.DashedFlags}}" -- "${cur}") )
    fi
}
complete -F _{{.Program}}_completions {{.Program}}
`),
	"zsh": completionTemplate("zsh", `#compdef {{.Program}}
_{{.Program}}() {
    _arguments \
{{- range .Flags}}
        '-{{.}}[{{.}}]{{if eq . "mode"}}:mode:({{join $.Modes " "}}){{else if eq . "completion"}}:shell:({{join $.Shells " "}}){{end}}' \
{{- end}}
        '*: :'
}
compdef _{{.Program}} {{.Program}}
`),
	"fish": completionTemplate("fish", `# fish completion for {{.Program}}
{{- range .Flags}}
complete -c {{$.Program}} -o {{.}}{{if eq . "mode"}} -x -a "{{join $.Modes " "}}"{{else if eq . "completion"}} -x -a "{{join $.Shells " "}}"{{end}}
{{- end}}
`),
}

func completionTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(template.FuncMap{"join": strings.Join}).Parse(text))
}

// GenerateCompletion writes a completion script for shell.
//
// Parameters:
//   - out: Destination of the script.
//   - shell: One of CompletionShells.
//   - program: The executable name.
//   - flags: Flag names without the leading dash.
//   - modes: Accepted values of -mode.
//
// Returns:
//   - error: For an unsupported shell or a write failure.
func GenerateCompletion(out io.Writer, shell, program string, flags, modes []string) error {
	t, ok := completionTemplates[shell]
	if !ok {
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(CompletionShells, ", "))
	}
	return t.Execute(out, completionData{Program: program, Flags: flags, Modes: modes, Shells: CompletionShells})
}
