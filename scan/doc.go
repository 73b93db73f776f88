// Package scan finds the fields carrying the reactive property marker and
// turns them into class descriptors.
//
// The scanner does not look at source code itself. It works on the
// collaborator interfaces in this package, which the linker implements for
// parsed C# files and which tests can implement with simple fakes.
package scan
