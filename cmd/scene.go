package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dset/arsavings/internal/composer"
	"github.com/dset/arsavings/internal/model"
	"github.com/dset/arsavings/internal/params"
	"github.com/dset/arsavings/internal/pipeline"
	"github.com/dset/arsavings/internal/resource"
	"github.com/dset/arsavings/internal/scene"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	flagSceneTimeout time.Duration
	flagSceneAt      []float64
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Compose the scene for the inputs and print it as JSON",
	RunE:  runScene,
}

func init() {
	sceneCmd.Flags().DurationVar(&flagSceneTimeout, "timeout", 10*time.Second, "Give up if resources do not load in time")
	sceneCmd.Flags().Float64SliceVar(&flagSceneAt, "at", []float64{0, 0, -0.5}, "Anchor position x,y,z in meters")
	rootCmd.AddCommand(sceneCmd)
}

func runScene(_ *cobra.Command, _ []string) error {
	p, err := inputParams()
	if err != nil {
		return err
	}
	mode, err := inputMode()
	if err != nil {
		return err
	}
	if len(flagSceneAt) != 3 {
		return fmt.Errorf("--at takes three coordinates, got %d", len(flagSceneAt))
	}

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}

	st := params.NewStore()
	if err := st.Apply(p); err != nil {
		return err
	}
	if err := st.SetMode(mode); err != nil {
		return err
	}

	cache := resource.NewCache(pipeline.NewResourceLoader(catalog, appCfg.Assets))
	defer cache.Close()

	composed := make(chan *scene.Node, 1)
	failed := make(chan error, 1)
	var comp *composer.Composer
	comp = composer.New(st, cache, composer.Options{
		Projector: projector(),
		Geometry:  appCfg.Geometry,
		Assets:    appCfg.Assets,
		Logger:    appLog.Named("composer"),
		Formatter: formatter().Currency,
		Sink: composer.SinkFuncs{
			OnScene: func(root *scene.Node) {
				if comp.State() != composer.Composed {
					return
				}
				select {
				case composed <- root:
				default:
				}
			},
			OnLoadFailed: func(purpose resource.Purpose, err error) {
				select {
				case failed <- fmt.Errorf("loading %s: %w", purpose, err):
				default:
				}
			},
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), flagSceneTimeout)
	defer cancel()

	var root *scene.Node
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return comp.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		st.Tap(model.NewAnchorTransform(r3.Vec{X: flagSceneAt[0], Y: flagSceneAt[1], Z: flagSceneAt[2]}))
		select {
		case root = <-composed:
			return nil
		case err := <-failed:
			return err
		case <-gctx.Done():
			return fmt.Errorf("scene not composed within %s", flagSceneTimeout)
		}
	})
	if err := g.Wait(); err != nil {
		return err
	}

	appLog.Debug("scene composed", zap.Int("nodes", root.Count()))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}
