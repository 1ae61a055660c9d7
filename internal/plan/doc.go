// Package plan resolves the canonical structs of one source file into a
// Plan consumed by code generation.
//
// Resolution pipeline:
//  1. Analyze the file → canonical declarations
//  2. Build each struct's registry from its directive or the registry file
//  3. Check and derive variants per struct
//  4. Check output names across the structs of the file
package plan
