package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/df07/go-bvh-pathtracer/cmd"
	"github.com/df07/go-bvh-pathtracer/pkg/log"
)

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "go-bvh-pathtracer"
	app.Usage = "render scenes with a BVH accelerated Monte Carlo path tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: debug, info, notice, warning or error",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to an image file",
			Description: `
Render a built-in scene or a JSON scene description to a PNG or PPM file.
Flags override the scene's own settings. Pressing Ctrl+C stops the render
after the current scanline and saves the rows finished so far.`,
			Flags:  cmd.RenderFlags,
			Action: cmd.RenderScene,
		},
		{
			Name:  "scenes",
			Usage: "list built-in and file scenes",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scenes-dir",
					Value: "scenes",
					Usage: "directory holding JSON scene files",
				},
			},
			Action: cmd.ListScenes,
		},
		{
			Name:  "estimate",
			Usage: "run Monte Carlo estimation experiments",
			Subcommands: []cli.Command{
				{
					Name:  "pi",
					Usage: "estimate pi with uniform and stratified samples",
					Flags: []cli.Flag{
						cli.IntFlag{
							Name:  "sqrt-n",
							Value: 1000,
							Usage: "side of the stratification grid, sqrt-n² samples in total",
						},
						cli.Int64Flag{
							Name:  "seed",
							Usage: "sampler seed",
						},
						cli.StringFlag{
							Name:  "csv",
							Usage: "write the convergence trace to this CSV file",
						},
					},
					Action: cmd.EstimatePi,
				},
				{
					Name:  "integral",
					Usage: "estimate the integral of x² over [0,2]",
					Flags: []cli.Flag{
						cli.IntFlag{
							Name:  "n",
							Value: 10,
							Usage: "number of samples",
						},
						cli.Int64Flag{
							Name:  "seed",
							Usage: "sampler seed",
						},
					},
					Action: cmd.EstimateIntegral,
				},
			},
		},
		{
			Name:  "serve",
			Usage: "serve the render API over HTTP and websockets",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to listen on",
				},
				cli.StringFlag{
					Name:  "scenes-dir",
					Value: "scenes",
					Usage: "directory holding JSON scene files",
				},
				cli.IntFlag{
					Name:  "max-width",
					Value: 2000,
					Usage: "largest image width a request may ask for",
				},
				cli.IntFlag{
					Name:  "max-spp",
					Value: 10000,
					Usage: "largest samples per pixel a request may ask for",
				},
			},
			Action: cmd.Serve,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.New("pathtracer").Errorf("%v", err)
		os.Exit(1)
	}
}
