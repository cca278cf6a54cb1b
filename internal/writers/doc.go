// Package writers turns audit reports into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (text report, TSV rounds, JSON,
//     JSONL, XLSX workbook).
//   - The core stays computation-only; apps pass a finished ReportV1 here.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
