package wix

import (
	"context"

	"github.com/dosanma1/msiforge/internal/toolchain"
)

// SignArtifact invokes signtool against a built installer. The /a flag lets
// signtool pick the best certificate from the local store; a timestamp
// server is appended only when one was configured. No retries: a flaky
// timestamp server surfaces as SignFailed for the operator to re-invoke.
func SignArtifact(ctx context.Context, runner toolchain.Runner, artifact, timestampURL string, capture bool) error {
	args := []string{"sign", "/a"}
	if timestampURL != "" {
		args = append(args, "/t", timestampURL)
	}
	args = append(args, artifact)

	res, err := runner.Run(ctx, toolchain.Signtool, args, capture)
	if err != nil {
		return toolError(KindSignFailed, toolchain.Signtool, res, err)
	}
	return nil
}
