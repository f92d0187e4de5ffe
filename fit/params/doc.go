// Package params holds fit parameters and the constraint settings used to
// initialise them.
//
// A [Params] collection is ordered by insertion, so the columns of a result
// table follow the component order of the model that produced it. A
// [Parameter] may mirror another one through its Expr field (for example a
// Voigt gamma tied to its sigma). Mirrored parameters never vary.
//
// Constraints are applied in bulk with [Inits], a nested mapping
// prefix → parameter base name → [Setting]:
//
//	inits := params.Inits{
//		"lp1_": {
//			"amplitude": {Value: params.Float(0.2), Min: params.Float(0), Max: params.Float(2)},
//			"sigma":     {Value: params.Float(0.1), Vary: params.Bool(false)},
//		},
//	}
//	err := inits.ApplyTo(p)
//
// The empty prefix addresses parameters by their full name.
package params
