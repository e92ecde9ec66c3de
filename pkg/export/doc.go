// Package export writes analysis results as downloadable files: an .xlsx
// workbook with a summary and one sheet per category, or a CSV per category.
package export
