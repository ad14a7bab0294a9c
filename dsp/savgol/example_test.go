package savgol_test

import (
	"fmt"

	"github.com/cwbudde/algo-sgpeak/dsp/savgol"
)

func ExampleSmooth() {
	x := []float64{1, 2, 3, 5, 8, 13, 21}

	value, err := savgol.Smooth(x, 5, 1, 0)
	if err != nil {
		fmt.Println(err)
		return
	}
	slope, err := savgol.Smooth(x, 5, 1, 1)
	if err != nil {
		fmt.Println(err)
		return
	}

	for i := range x {
		fmt.Printf("%d: %.1f %.1f\n", i, value[i], slope[i])
	}
	// Output:
	// 0: 0.4 1.7
	// 1: 2.1 1.7
	// 2: 3.8 1.7
	// 3: 6.2 2.7
	// 4: 10.0 4.4
	// 5: 14.4 4.4
	// 6: 18.8 4.4
}

func ExampleDesign() {
	k, err := savgol.Design(5, 2, 0)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, c := range k.Coefficients() {
		fmt.Printf("%.4f ", c*35)
	}
	fmt.Println()
	// Output:
	// -3.0000 12.0000 17.0000 12.0000 -3.0000
}
