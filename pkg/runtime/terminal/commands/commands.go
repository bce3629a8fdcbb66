// Package commands holds the cobra commands of the workflows CLI.
package commands

import (
	"context"

	"github.com/de-tools/workflow-builder/pkg/models/domain"
)

// Exporter writes the workflow list to a destination such as a file path.
type Exporter interface {
	Export(ctx context.Context, workflows []domain.Workflow, dest string) error
}
