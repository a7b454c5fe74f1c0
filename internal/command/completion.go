// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NiklasRosenstein/tire/internal/meta"
)

const bashCompletionScript = `# bash completion for tire
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_tire()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "add cache check config fmt lint profile run test completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local common="--profile -p --destination --validation --cwd -C --refresh --timeout"

    case "$cmd" in
        config)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "show path get diff" -- "$cur") )
                return 0
            fi
            local opts="$common --output -o --color -c --diff_filter"
            ;;
        profile)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "show validate" -- "$cur") )
                return 0
            fi
            local opts="$common --output -o"
            ;;
        cache)
            if [[ ${COMP_CWORD} -eq 2 ]]; then
                COMPREPLY=( $(compgen -W "list purge" -- "$cur") )
                return 0
            fi
            local opts="--all --older-than --color -c --padding --sort -s --titles -t"
            ;;
        check)
            local opts="$common --daemon -d --dry-run"
            ;;
        fmt)
            local opts="$common --check --dry-run"
            ;;
        lint)
            local opts="$common --fix --unsafe-fixes --dry-run"
            ;;
        test)
            local opts="$common --parallel -n --filter -k --allow-no-tests --dry-run"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            COMPREPLY=( $(compgen -o default -- "$cur") )
            return 0
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "toml json yaml" -- "$cur") )
            return 0
            ;;
        --destination)
            COMPREPLY=( $(compgen -W "ephemeral fixed" -- "$cur") )
            return 0
            ;;
        --validation)
            COMPREPLY=( $(compgen -W "auto strict lenient" -- "$cur") )
            return 0
            ;;
        --cwd|-C)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
        --profile|-p)
            COMPREPLY=( $(compgen -f -- "$cur") )
            return 0
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _tire tire
`

const zshCompletionScript = `#compdef tire

_tire() {
  local -a cmds
  cmds=(
    'add:add dependencies to the project (uv add)'
    'cache:inspect and clean the profile cache'
    'check:type check the project with mypy'
    'config:inspect the effective configuration'
    'fmt:format the project with ruff'
    'lint:lint the project with ruff'
    'profile:inspect profiles'
    'run:call a Python script, module, function or package'
    'test:run the test suite with pytest'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-p --profile)'{-p,--profile}'[profile source]:profile:_files'
  '--destination[where the effective configuration is written]:destination:(ephemeral fixed)'
  '--validation[profile validation mode]:mode:(auto strict lenient)'
  '(-C --cwd)'{-C,--cwd}'[directory to locate the project from]:directory:_directories'
  '--refresh[fetch remote profiles even if cached]'
  '--timeout[time allowed for fetching a remote profile]:duration'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'tire commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    config)
      if (( CURRENT == 3 )); then
        _values 'config command' show path get diff
        return
      fi
      _arguments -C \
        $common \
        '(-o --output)'{-o,--output}'[output format]:format:(toml json yaml)' \
        '(-c --color)'{-c,--color}'[color the diff]' \
        '--diff_filter[top-level keys to leave out of the diff]:keys'
      ;;
    profile)
      if (( CURRENT == 3 )); then
        _values 'profile command' show validate
        return
      fi
      _arguments -C \
        $common \
        '(-o --output)'{-o,--output}'[output format]:format:(toml json yaml)'
      ;;
    cache)
      if (( CURRENT == 3 )); then
        _values 'cache command' list purge
        return
      fi
      _arguments -C \
        '--all[remove every cached profile]' \
        '--older-than[remove entries older than this many hours]:hours' \
        '(-c --color)'{-c,--color}'[enable colored text]' \
        '(-s --sort)'{-s,--sort}'[sort columns]:columns' \
        '(-t --titles)'{-t,--titles}'[show titles]'
      ;;
    check)
      _arguments -C \
        $common \
        '(-d --daemon)'{-d,--daemon}'[run through dmypy]' \
        '--dry-run[print the command line only]' \
        '*:file:_files'
      ;;
    fmt)
      _arguments -C \
        $common \
        '--check[report without rewriting]' \
        '--dry-run[print the command line only]' \
        '*:file:_files'
      ;;
    lint)
      _arguments -C \
        $common \
        '--fix[apply fixes]' \
        '--unsafe-fixes[also apply unsafe fixes]' \
        '--dry-run[print the command line only]' \
        '*:file:_files'
      ;;
    test)
      _arguments -C \
        $common \
        '(-n --parallel)'{-n,--parallel}'[number of xdist workers]:workers' \
        '(-k --filter)'{-k,--filter}'[only run matching tests]:expression' \
        '--allow-no-tests[succeed when no tests were collected]' \
        '--dry-run[print the command line only]' \
        '*:file:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _files
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _tire tire
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := stdout(cmd)
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(stderr(cmd), "usage: tire completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "tire completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
