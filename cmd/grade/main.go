package main

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kovidgoyal/grading"
	"github.com/kovidgoyal/grading/colorspace"
	"github.com/kovidgoyal/grading/cube"
)

var output string

func outputPath(input string) string {
	if output != "" {
		return output
	}
	ext := ".png"
	if i := strings.LastIndex(input, "."); i > 0 {
		return input[:i] + ".graded" + ext
	}
	return input + ".graded" + ext
}

func processFile(input string, fn func(img *grading.Animation) error) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	anim, err := grading.DecodeAnimation(f)
	if err != nil {
		return err
	}
	if err = fn(anim); err != nil {
		return err
	}
	path := outputPath(input)
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if strings.HasSuffix(strings.ToLower(path), ".gif") {
		err = anim.EncodeAsGIF(out)
	} else {
		err = anim.EncodeAsPNG(out)
	}
	errc := out.Close()
	if err == nil {
		err = errc
	}
	return err
}

func adjustCmd() *cobra.Command {
	var p grading.AdjustmentParams
	cmd := &cobra.Command{
		Use:   "adjust input-file",
		Short: "Run the slider adjustment pipeline over an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return processFile(args[0], func(anim *grading.Animation) error {
				anim.Process(func(img *image.NRGBA) *image.NRGBA { return grading.Adjust(img, p) })
				return nil
			})
		},
	}
	fl := cmd.Flags()
	fl.Float64Var(&p.Temperature, "temperature", 0, "warm/cool shift (-100..100)")
	fl.Float64Var(&p.Tint, "tint", 0, "green/magenta shift (-100..100)")
	fl.Float64Var(&p.Brightness, "brightness", 0, "brightness (-100..100)")
	fl.Float64Var(&p.Contrast, "contrast", 0, "contrast (-100..100)")
	fl.Float64Var(&p.Highlights, "highlights", 0, "highlight recovery/boost (-100..100)")
	fl.Float64Var(&p.Shadows, "shadows", 0, "shadow lift/crush (-100..100)")
	fl.Float64Var(&p.Whites, "whites", 0, "white point (-100..100)")
	fl.Float64Var(&p.Blacks, "blacks", 0, "black point (-100..100)")
	fl.Float64Var(&p.Vibrance, "vibrance", 0, "selective saturation (-100..100)")
	fl.Float64Var(&p.Saturation, "saturation", 0, "saturation (-100..100)")
	fl.Float64Var(&p.Clarity, "clarity", 0, "midtone contrast (-100..100)")
	fl.Float64Var(&p.Sharpness, "sharpness", 0, "unsharp mask strength (0..100)")
	fl.Float64Var(&p.Vignette, "vignette", 0, "vignette darken/lighten (-100..100)")
	fl.BoolVar(&p.Grayscale, "grayscale", false, "convert to grayscale")
	fl.BoolVar(&p.Sepia, "sepia", false, "apply sepia toning")
	fl.BoolVar(&p.Invert, "invert", false, "invert colors")
	return cmd
}

func lookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "look look-id input-file",
		Short: "Apply a named filter look",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lk, ok := grading.LookByID(args[0])
			if !ok {
				return fmt.Errorf("unknown look %q, run `grade looks` for the list", args[0])
			}
			return processFile(args[1], func(anim *grading.Animation) error {
				anim.Process(lk.Apply)
				return nil
			})
		},
	}
}

func presetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preset preset-id input-file",
		Short: "Apply a named slider preset through the adjustment pipeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := grading.PresetByID(args[0]); !ok {
				return fmt.Errorf("unknown preset %q, run `grade presets` for the list", args[0])
			}
			return processFile(args[1], func(anim *grading.Animation) error {
				anim.Process(func(img *image.NRGBA) *image.NRGBA {
					return grading.ApplyPreset(img, grading.AdjustmentParams{}, args[0])
				})
				return nil
			})
		},
	}
}

func lutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lut cube-file input-file",
		Short: "Remap an image through a .cube 3D lookup table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lut, err := cube.ParseFile(args[0])
			if err != nil {
				return fmt.Errorf("cannot load LUT: %w", err)
			}
			for _, d := range lut.Diagnostics {
				fmt.Fprintln(os.Stderr, "warning:", d)
			}
			return processFile(args[1], func(anim *grading.Animation) error {
				anim.Process(func(img *image.NRGBA) *image.NRGBA { return grading.ApplyLUT(img, lut) })
				return nil
			})
		},
	}
}

func listLooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "looks",
		Short: "List the built-in filter looks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, lk := range grading.Looks() {
				fmt.Printf("%-14s %-14s %s\n", lk.ID, lk.Name, lk.Family)
			}
			return nil
		},
	}
}

func listPresetsCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in slider presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ps := grading.Presets()
			if category != "" {
				ps = grading.PresetsByCategory(category)
			}
			for _, pr := range ps {
				fmt.Printf("%-10s %-10s %s\n", pr.ID, pr.Name, pr.Category)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list presets in this category")
	return cmd
}

func paletteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "palette color [steps]",
		Short: "Print a lightness palette derived from a color",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := colorspace.Parse(args[0])
			if err != nil {
				return err
			}
			n := 5
			if len(args) == 2 {
				if n, err = strconv.Atoi(args[1]); err != nil || n < 1 {
					return fmt.Errorf("bad step count %q", args[1])
				}
			}
			for _, s := range colorspace.Palette(c, n) {
				h := colorspace.RGBToHSL(s)
				fmt.Printf("%s  hsl(%d, %d%%, %d%%)\n", s.Hex(), h.H, h.S, h.L)
			}
			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:           "grade",
		Short:         "grade applies color adjustments, filter looks and 3D LUTs to images",
		Version:       grading.Version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&output, "output", "o", "", "output file, a .gif extension selects GIF output (default: input name with .graded.png)")
	root.AddCommand(adjustCmd(), lookCmd(), presetCmd(), lutCmd(), listLooksCmd(), listPresetsCmd(), paletteCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
