package connection

import (
	"github.com/notargets/DGTransfer/runner"
	"github.com/notargets/DGTransfer/utils"
)

// ResampleMatrix assembles the whole connection as one sparse operator
// over flattened fields, laid out the way DOFArray.Flatten lays them
// out: group offset, then element times node count, then node. Row
// indices address destination nodes, columns source nodes. The matrix
// is a test and diagnostics oracle; Apply never forms it.
func (dc *DirectConnection) ResampleMatrix(ctx *runner.Context) utils.CSR {
	var (
		fromOff = dc.From.GroupOffsets()
		toOff   = dc.To.GroupOffsets()
		R       = utils.NewDOK(dc.To.NNodes(), dc.From.NNodes())
	)
	for igrp, cgrp := range dc.Groups {
		NpT := dc.To.Groups[igrp].Np
		for ibatch, batch := range cgrp.Batches {
			var (
				sgrp   = dc.From.Groups[batch.FromGroup]
				NpS    = sgrp.Np
				interp = dc.interpMatrix(ctx, igrp, ibatch)
			)
			for i := range batch.FromElements {
				var (
					rowBase = toOff[igrp] + batch.ToElements[i]*NpT
					colBase = fromOff[batch.FromGroup] + batch.FromElements[i]*NpS
				)
				for idof := 0; idof < NpT; idof++ {
					for j := 0; j < NpS; j++ {
						v := interp.DataP[j+idof*NpS]
						if v == 0 {
							continue
						}
						row, col := rowBase+idof, colBase+j
						R.Set(row, col, R.At(row, col)+v)
					}
				}
			}
		}
	}
	csr := R.ToCSR()
	return csr.SetReadOnly("resample matrix")
}
