package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gml/skins/internal/textures"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file.png>...",
	Short: "Detects the format and the model of local skin files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			if !classifyFile(cmd.OutOrStdout(), path) {
				failed++
			}
		}

		if failed > 0 {
			return fmt.Errorf("unable to classify %d of %d files", failed, len(args))
		}

		return nil
	},
}

func classifyFile(out io.Writer, path string) bool {
	format, model, err := classifySkin(path)
	if err != nil {
		fmt.Fprintf(out, "%s: error=%q\n", path, err.Error())
		return false
	}

	fmt.Fprintf(out, "%s: format=%s model=%s\n", path, format, model)

	return true
}

func classifySkin(path string) (textures.Format, textures.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return textures.FormatUnknown, textures.ModelUnknown, err
	}

	defer f.Close()

	img, err := textures.DecodeImage(f)
	if err != nil {
		return textures.FormatUnknown, textures.ModelUnknown, err
	}

	model, err := textures.ClassifyModel(img)
	if err != nil {
		return textures.FormatUnknown, textures.ModelUnknown, err
	}

	return textures.ClassifyFormat(img.Bounds().Dx()), model, nil
}

func init() {
	RootCmd.AddCommand(classifyCmd)
}
