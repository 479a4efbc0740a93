package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/arewm/pipegraph/pkg/log"
	"github.com/arewm/pipegraph/pkg/services"
	"github.com/arewm/pipegraph/pkg/store"
	"github.com/arewm/pipegraph/pkg/store/file"
	"github.com/arewm/pipegraph/pkg/tasklist"
	cli "github.com/urfave/cli/v3"
)

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "input",
		Aliases: []string{"i"},
		Usage:   "Snapshot JSON file, or - for stdin",
		Value:   "-",
	}
}

// GraphCommand renders the node graph model of a snapshot file as JSON.
func GraphCommand() *cli.Command {
	return &cli.Command{
		Name:    "graph",
		Aliases: []string{"g"},
		Usage:   "Build the render-ready graph model from a snapshot",
		Flags:   []cli.Flag{inputFlag()},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			snapshot, err := readSnapshot(command.String("input"))
			if err != nil {
				return err
			}

			service, err := newLocalService()
			if err != nil {
				return err
			}

			model, err := service.BuildGraph(ctx, services.BuildGraphRequest{
				PipelineRun: snapshot.PipelineRun,
				TaskRuns:    snapshot.TaskRuns,
			})
			if err != nil {
				return err
			}

			return printJSON(model)
		},
	}
}

// TasksCommand prints the flat task-with-status list of a snapshot.
func TasksCommand() *cli.Command {
	return &cli.Command{
		Name:    "tasks",
		Aliases: []string{"t"},
		Usage:   "List the run's tasks with merged status",
		Flags:   []cli.Flag{inputFlag()},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			snapshot, err := readSnapshot(command.String("input"))
			if err != nil {
				return err
			}

			run := snapshot.PipelineRun
			if run.Status == nil || run.Status.PipelineSpec == nil {
				return fmt.Errorf("snapshot for %s carries no resolved pipeline spec", run.Name)
			}

			spec := run.Status.PipelineSpec

			builder := tasklist.NewBuilder(log.WithModule("cli"), nil)
			records := tasklist.Normalize(snapshot.TaskRuns, run)

			list := builder.AppendStatus(spec, run, records, false)
			list = append(list, builder.AppendStatus(spec, run, records, true)...)

			return printJSON(list)
		},
	}
}

func readSnapshot(path string) (*store.Snapshot, error) {
	var (
		payload []byte
		err     error
	)

	if path == "-" {
		payload, err = io.ReadAll(os.Stdin)
	} else {
		payload, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot store.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if err := store.Validate(&snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// newLocalService builds a storeless graph service for one-shot builds.
func newLocalService() (*services.Graph, error) {
	return services.NewGraph(log.WithModule("cli"), file.NewStore(os.TempDir()), nil, nil)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
