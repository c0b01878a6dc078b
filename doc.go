/*
Package skintone estimates the skin color of a face from a set of face mesh landmarks.

The forehead and the two cheeks are delimited by landmark polygons. Every pixel of the
polygons bounding box is assigned to at most one patch, the patches holding too few pixels
and the cheeks too small compared to the opposite one are discarded, then the per channel
mean and standard deviation are computed over the remaining pixels. The pixels lying farther
than two standard deviations from the mean are removed before the masked, inverted and
diffuse images are rendered.

The package provides a command line interface. To check the supported flags type:

	$ skintone --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"os"

		"github.com/AydanPirani/skintone"
	)

	func main() {
		p, _ := skintone.NewProcessor(skintone.DefaultConfig())

		img, _ := os.Open("face.jpg")
		lms, _ := os.Open("face.json")

		_, faces, err := p.Process(img, lms)
		if err != nil {
			fmt.Printf("Error analyzing the image: %s", err.Error())
			return
		}
		fmt.Println(faces[0].MeanRGB)
	}
*/
package skintone
