package scran_test

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/piyushjo15/scran"
	"github.com/piyushjo15/scran/matrix"
	"github.com/piyushjo15/scran/qr"
)

func Example() {
	ctx := context.Background()

	// Two genes across six cells, with a two-batch design.
	exprs := matrix.NewDense(2, 6)
	exprs.SetRow(0, []float64{1, 2, 3, 7, 8, 9})
	exprs.SetRow(1, []float64{4, 4, 4, 4, 4, 4})

	design := mat.NewDense(6, 2, []float64{
		1, 0,
		1, 0,
		1, 0,
		0, 1,
		0, 1,
		0, 1,
	})

	f, err := qr.New(design)
	if err != nil {
		panic(err)
	}

	res, err := scran.Residuals(ctx, exprs, nil, f)
	if err != nil {
		panic(err)
	}

	// Batch means are removed: each half of gene 0 is centered.
	for i := 0; i < 2; i++ {
		row := res.Row(nil, i)
		for j, v := range row {
			row[j] = math.Round(v*1e6) / 1e6
			if row[j] == 0 {
				row[j] = 0 // normalize -0
			}
		}
		fmt.Println(row)
	}
	// Output:
	// [-1 0 1 -1 0 1]
	// [0 0 0 0 0 0]
}
