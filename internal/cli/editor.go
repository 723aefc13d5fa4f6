package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
)

// defaultEditor is used when neither --editor, $VISUAL nor $EDITOR is set.
const defaultEditor = "vi"

// resolveEditor returns the editor command: the flag value, then $VISUAL,
// then $EDITOR.
func resolveEditor(flag string) string {
	for _, candidate := range []string{flag, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return defaultEditor
}

// runEditor opens path in editor and waits for it to exit. The editor
// may carry quoted arguments, e.g. "code --wait".
func runEditor(cmd *cobra.Command, editor, path string) error {
	fields, err := shlex.Split(editor)
	if err != nil || len(fields) == 0 {
		return clierrors.EditorFailed(editor, fmt.Errorf("parsing editor command: %w", err))
	}

	c := exec.CommandContext(cmd.Context(), fields[0], append(fields[1:], path)...)
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return clierrors.EditorFailed(editor, err)
	}
	return nil
}
