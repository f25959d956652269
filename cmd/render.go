package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"

	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/imageio"
	"github.com/df07/go-bvh-pathtracer/pkg/integrator"
	"github.com/df07/go-bvh-pathtracer/pkg/loaders"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
)

// RenderFlags are the options of the render command
var RenderFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "sandbox",
		Usage: "built-in scene name, file:<name> from the scenes directory, or a .json path",
	},
	cli.StringFlag{
		Name:  "scenes-dir",
		Value: "scenes",
		Usage: "directory holding JSON scene files",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "image width, overrides the scene",
	},
	cli.IntFlag{
		Name:  "spp",
		Usage: "samples per pixel, overrides the scene",
	},
	cli.IntFlag{
		Name:  "depth",
		Usage: "maximum bounces, overrides the scene",
	},
	cli.StringFlag{
		Name:  "mode",
		Usage: "render mode: shaded, debug or depth",
	},
	cli.Int64Flag{
		Name:  "seed",
		Usage: "sampler seed, overrides the scene",
	},
	cli.BoolFlag{
		Name:  "show-bvh",
		Usage: "overlay BVH node boxes on the image",
	},
	cli.StringSliceFlag{
		Name:  "set",
		Value: &cli.StringSlice{},
		Usage: "JSON scene override as path=value, e.g. camera.vfov=30",
	},
	cli.StringFlag{
		Name:  "out, o",
		Value: "render.png",
		Usage: "output image, .png or .ppm",
	},
}

// RenderScene renders a scene to an image file and reports statistics
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	overrides, err := parseOverrides(ctx.StringSlice("set"))
	if err != nil {
		return err
	}

	id := ctx.String("scene")
	s, cfg, err := loaders.Resolve(id, ctx.String("scenes-dir"), overrides)
	if err != nil {
		return err
	}
	if err := applyRenderFlags(ctx, &cfg); err != nil {
		return err
	}

	world, lights, err := s.World()
	if err != nil {
		return err
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fb := renderer.NewFrameBuffer(cfg.ImageWidth, cfg.ImageHeight())
	stats, err := renderer.Render(signalCtx, cfg, world, lights, fb, renderer.WithProgress(progressLogger()))
	if err != nil {
		if !errors.Is(err, renderer.ErrInterrupted) {
			return err
		}
		logger.Warningf("saving partial image: %v", err)
	}

	out := ctx.String("out")
	if err := imageio.Save(out, fb); err != nil {
		return err
	}
	logger.Noticef("wrote %s", out)

	displayRenderStats(s.Name, stats, world.Stats())
	return nil
}

// applyRenderFlags copies explicitly set command flags over the scene's config
func applyRenderFlags(ctx *cli.Context, cfg *renderer.Config) error {
	if ctx.IsSet("width") {
		cfg.ImageWidth = ctx.Int("width")
	}
	if ctx.IsSet("spp") {
		cfg.SamplesPerPixel = ctx.Int("spp")
	}
	if ctx.IsSet("depth") {
		cfg.MaxDepth = ctx.Int("depth")
	}
	if ctx.IsSet("seed") {
		cfg.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("show-bvh") {
		cfg.ShowBVH = ctx.Bool("show-bvh")
	}
	if ctx.IsSet("mode") {
		mode, err := integrator.ParseMode(ctx.String("mode"))
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	return cfg.Validate()
}

// parseOverrides turns path=value pairs into scene overrides. Values that
// parse as booleans or numbers keep that type, anything else is a string.
func parseOverrides(pairs []string) (map[string]any, error) {
	overrides := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		path, value, ok := strings.Cut(pair, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("override %q is not of the form path=value", pair)
		}
		overrides[path] = parseValue(value)
	}
	return overrides, nil
}

func parseValue(value string) any {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

// progressLogger logs each tenth of the image as it completes
func progressLogger() renderer.ProgressFunc {
	lastDecile := -1
	return func(rowsDone, totalRows int) {
		decile := rowsDone * 10 / totalRows
		if decile != lastDecile {
			lastDecile = decile
			logger.Infof("rendered %d/%d rows (%d%%)", rowsDone, totalRows, decile*10)
		}
	}
}

func displayRenderStats(sceneName string, stats renderer.RenderStats, bvh geometry.BVHStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Statistic", "Value"})

	table.Append([]string{"Scene", sceneName})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", stats.Width, stats.Height)})
	table.Append([]string{"Mode", stats.Mode.String()})
	table.Append([]string{"Samples per pixel", strconv.Itoa(stats.Samples)})
	table.Append([]string{"Rows", fmt.Sprintf("%d/%d", stats.RowsCompleted, stats.Height)})
	table.Append([]string{"Primary rays", strconv.FormatInt(stats.PrimaryRays, 10)})
	table.Append([]string{"Rays per second", fmt.Sprintf("%.0f", stats.RaysPerSecond())})
	table.Append([]string{"BVH nodes / depth", fmt.Sprintf("%d / %d", bvh.Nodes, bvh.Depth)})
	table.Append([]string{"Primitives", strconv.Itoa(bvh.Primitives)})
	if stats.OverlayPixels > 0 {
		table.Append([]string{"Overlay pixels", strconv.Itoa(stats.OverlayPixels)})
	}
	for _, row := range hostInfo() {
		table.Append(row)
	}
	table.SetFooter([]string{"Render time", stats.Elapsed.String()})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}

// hostInfo describes the CPU and memory of the machine, skipping anything gopsutil cannot read
func hostInfo() [][]string {
	var rows [][]string
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		cores, _ := cpu.Counts(true)
		rows = append(rows, []string{"CPU", fmt.Sprintf("%s (%d threads)", strings.TrimSpace(infos[0].ModelName), cores)})
	} else if err != nil {
		logger.Debugf("cpu info unavailable: %v", err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		rows = append(rows, []string{"Memory", fmt.Sprintf("%.1f GiB (%.0f%% used)", float64(vm.Total)/(1<<30), vm.UsedPercent)})
	} else {
		logger.Debugf("memory info unavailable: %v", err)
	}
	return rows
}
