// Package cli provides terminal helpers for the storefront command:
// shell completion scripts, colored status lines, and a spinner for
// calls that wait on the backend.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const bashCompletion = `#!/bin/bash
# Bash completion for the storefront CLI

_storefront_completion() {
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    local commands="login register logout whoami products product cart checkout orders vendor admin completion help"
    local cart_cmds="add list set remove"
    local vendor_cmds="status apply dashboard restock add-product delete-product"
    local admin_cmds="applications approve reject stats"
    local global_flags="--config --help"

    case "${prev}" in
        cart)
            COMPREPLY=( $(compgen -W "${cart_cmds}" -- ${cur}) )
            return 0
            ;;
        vendor)
            COMPREPLY=( $(compgen -W "${vendor_cmds}" -- ${cur}) )
            return 0
            ;;
        admin)
            COMPREPLY=( $(compgen -W "${admin_cmds}" -- ${cur}) )
            return 0
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- ${cur}) )
            return 0
            ;;
        --config)
            COMPREPLY=( $(compgen -f -- ${cur}) )
            return 0
            ;;
        *)
            ;;
    esac

    COMPREPLY=( $(compgen -W "${commands} ${global_flags}" -- ${cur}) )
    return 0
}

complete -F _storefront_completion storefront
`

const zshCompletion = `#compdef storefront

_storefront() {
    local -a commands
    commands=(
        'login:Sign in with email and password'
        'register:Create a customer account'
        'logout:Discard the stored credential'
        'whoami:Show the signed-in identity'
        'products:List the catalog'
        'product:Show one product'
        'cart:Manage the shopping cart'
        'checkout:Place an order for the cart'
        'orders:List past orders'
        'vendor:Vendor onboarding and dashboard'
        'admin:Review vendor applications'
        'completion:Generate shell completion script'
        'help:Show usage'
    )

    local -a cart_cmds
    cart_cmds=(
        'add:Add a product to the cart'
        'list:Show the cart'
        'set:Change a line quantity'
        'remove:Drop a line'
    )

    local -a vendor_cmds
    vendor_cmds=(
        'status:Show application state'
        'apply:Submit a vendor application'
        'dashboard:Show sales and inventory'
        'restock:Add stock to a product'
        'add-product:Create a product'
        'delete-product:Remove a product'
    )

    local -a admin_cmds
    admin_cmds=(
        'applications:List pending applications first'
        'approve:Approve an application'
        'reject:Reject an application'
        'stats:Show vendor performance'
    )

    _arguments -C \
        '--config[Configuration file path]:file:_files' \
        '1: :->command' \
        '*:: :->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
                cart)
                    _describe 'cart command' cart_cmds
                    ;;
                vendor)
                    _describe 'vendor command' vendor_cmds
                    ;;
                admin)
                    _describe 'admin command' admin_cmds
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_storefront "$@"
`

const fishCompletion = `# Fish completion for the storefront CLI

complete -c storefront -f -n "__fish_use_subcommand" -a "login" -d "Sign in with email and password"
complete -c storefront -f -n "__fish_use_subcommand" -a "register" -d "Create a customer account"
complete -c storefront -f -n "__fish_use_subcommand" -a "logout" -d "Discard the stored credential"
complete -c storefront -f -n "__fish_use_subcommand" -a "whoami" -d "Show the signed-in identity"
complete -c storefront -f -n "__fish_use_subcommand" -a "products" -d "List the catalog"
complete -c storefront -f -n "__fish_use_subcommand" -a "product" -d "Show one product"
complete -c storefront -f -n "__fish_use_subcommand" -a "cart" -d "Manage the shopping cart"
complete -c storefront -f -n "__fish_use_subcommand" -a "checkout" -d "Place an order for the cart"
complete -c storefront -f -n "__fish_use_subcommand" -a "orders" -d "List past orders"
complete -c storefront -f -n "__fish_use_subcommand" -a "vendor" -d "Vendor onboarding and dashboard"
complete -c storefront -f -n "__fish_use_subcommand" -a "admin" -d "Review vendor applications"
complete -c storefront -f -n "__fish_use_subcommand" -a "completion" -d "Generate shell completion"

complete -c storefront -f -n "__fish_seen_subcommand_from cart" -a "add" -d "Add a product to the cart"
complete -c storefront -f -n "__fish_seen_subcommand_from cart" -a "list" -d "Show the cart"
complete -c storefront -f -n "__fish_seen_subcommand_from cart" -a "set" -d "Change a line quantity"
complete -c storefront -f -n "__fish_seen_subcommand_from cart" -a "remove" -d "Drop a line"

complete -c storefront -f -n "__fish_seen_subcommand_from vendor" -a "status" -d "Show application state"
complete -c storefront -f -n "__fish_seen_subcommand_from vendor" -a "apply" -d "Submit a vendor application"
complete -c storefront -f -n "__fish_seen_subcommand_from vendor" -a "dashboard" -d "Show sales and inventory"
complete -c storefront -f -n "__fish_seen_subcommand_from vendor" -a "restock" -d "Add stock to a product"
complete -c storefront -f -n "__fish_seen_subcommand_from vendor" -a "add-product" -d "Create a product"
complete -c storefront -f -n "__fish_seen_subcommand_from vendor" -a "delete-product" -d "Remove a product"

complete -c storefront -f -n "__fish_seen_subcommand_from admin" -a "applications" -d "List applications"
complete -c storefront -f -n "__fish_seen_subcommand_from admin" -a "approve" -d "Approve an application"
complete -c storefront -f -n "__fish_seen_subcommand_from admin" -a "reject" -d "Reject an application"
complete -c storefront -f -n "__fish_seen_subcommand_from admin" -a "stats" -d "Show vendor performance"

complete -c storefront -f -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"

complete -c storefront -l config -r -d "Configuration file path"
`

// WriteCompletion writes the completion script for shell to w.
func WriteCompletion(w io.Writer, shell string) error {
	script, err := completionScript(shell)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, script)
	return err
}

// InstallCompletion writes the completion script to the conventional
// per-user location for shell and prints how to enable it.
func InstallCompletion(shell string) error {
	script, err := completionScript(shell)
	if err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	var path, hint string
	switch shell {
	case "bash":
		path = filepath.Join(home, ".bash_completion.d", "storefront")
		hint = "source ~/.bash_completion.d/storefront"
	case "zsh":
		path = filepath.Join(home, ".zsh", "completion", "_storefront")
		hint = "fpath=(~/.zsh/completion $fpath); autoload -Uz compinit && compinit"
	case "fish":
		path = filepath.Join(home, ".config", "fish", "completions", "storefront.fish")
		hint = "fish loads ~/.config/fish/completions automatically"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create completion directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return fmt.Errorf("write completion script: %w", err)
	}

	fmt.Printf("Completion script installed to %s\n", path)
	fmt.Printf("Enable it with: %s\n", hint)
	return nil
}

func completionScript(shell string) (string, error) {
	switch shell {
	case "bash":
		return bashCompletion, nil
	case "zsh":
		return zshCompletion, nil
	case "fish":
		return fishCompletion, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", shell)
	}
}
