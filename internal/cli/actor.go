package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/gmao/internal/ctxutil"
)

var actor string

// BindActorFlag registers the persistent --actor flag on root. The default
// is $GMAO_ACTOR, then $USER.
func BindActorFlag(root *cobra.Command) {
	root.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "Operator recorded in the logs")
}

func defaultActor() string {
	if v := os.Getenv("GMAO_ACTOR"); v != "" {
		return v
	}
	return os.Getenv("USER")
}

// commandContext returns the command context carrying the actor.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxutil.WithActor(ctx, actor)
}
