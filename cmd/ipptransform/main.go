// seehuhn.de/go/printraster - convert rendered document pages to printer formats
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Ipptransform converts a PDF or image file to PWG raster, Apple
// raster or PCL for printing.  Job options are given in IPP form and
// progress is reported on stderr using "ATTR:" lines, following the
// convention of CUPS filters.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/printraster"
	"seehuhn.de/go/printraster/imagedraw"
	"seehuhn.de/go/printraster/pdfdraw"
)

func main() {
	deviceURI := flag.String("d", "", "device URI to send output to (socket://host[:port])")
	outputFile := flag.String("f", "", "output file (default is standard output)")
	contentType := flag.String("i", "", "input MIME type")
	outputType := flag.String("m", "", "output MIME type (default image/pwg-raster)")
	optionList := flag.String("o", "", "job options as 'name=value ...' pairs")
	resolutions := flag.String("r", "300dpi", "supported resolutions, comma-separated")
	sheetBack := flag.String("s", "normal", "back side transform (normal, flipped, manual-tumble, rotated)")
	types := flag.String("t", "sgray_8", "supported raster types, comma-separated")
	verbose := flag.Bool("v", false, "log progress on stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] filename\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	// the print scheduler passes these through the environment
	if *contentType == "" {
		*contentType = os.Getenv("CONTENT_TYPE")
	}
	if *deviceURI == "" {
		*deviceURI = os.Getenv("DEVICE_URI")
	}
	if *outputType == "" {
		*outputType = os.Getenv("OUTPUT_TYPE")
	}
	if *outputType == "" {
		*outputType = "image/pwg-raster"
	}

	err := run(filename, *deviceURI, *outputFile, *contentType, *outputType,
		*optionList, *resolutions, *sheetBack, *types, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(filename, deviceURI, outputFile, contentType, outputType, optionList, resolutions, sheetBack, types string, verbose bool) error {
	opts, err := jobOptions(optionList)
	if err != nil {
		return fmt.Errorf("invalid job options: %w", err)
	}

	if contentType == "" {
		contentType, err = detectType(filename)
		if err != nil {
			return err
		}
	}

	caps := &printraster.Capabilities{
		Resolutions: strings.Split(resolutions, ","),
		Types:       strings.Split(types, ","),
		SheetBack:   sheetBack,
	}
	defaults := &printraster.Defaults{
		Media:          opts.Get("media-default"),
		PrintColorMode: opts.Get("print-color-mode-default"),
		Sides:          opts.Get("sides-default"),
	}

	// count the document pages before resolving the job parameters,
	// since duplex handling depends on the page count
	numPages := 1
	var pdfFile *os.File
	var pdfReader pdf.Getter
	if contentType == "application/pdf" {
		pdfFile, err = os.Open(filename)
		if err != nil {
			return err
		}
		defer pdfFile.Close()
		pdfReader, err = pdf.NewReader(pdfFile, nil)
		if err != nil {
			return err
		}
		numPages, err = pagetree.NumPages(pdfReader)
		if err != nil {
			return err
		}
	}

	firstPage, lastPage, err := pageRange(opts, numPages)
	if err != nil {
		return err
	}
	pages := lastPage - firstPage + 1

	p, err := printraster.Resolve(outputType, opts, caps, defaults, true, pages)
	if err != nil {
		return err
	}

	pageWidth := float64(p.Header.PageSize[0])
	pageHeight := float64(p.Header.PageSize[1])

	var renderer printraster.Renderer
	switch contentType {
	case "application/pdf":
		renderer, err = pdfdraw.New(pdfReader, pageWidth, pageHeight)
		if err != nil {
			return err
		}
	case "image/jpeg", "image/png":
		scaling := opts.Get("print-scaling")
		if scaling == "" {
			scaling = opts.Get("print-scaling-default")
		}
		img, err := imagedraw.Open(filename, &imagedraw.Options{
			PageWidth:  pageWidth,
			PageHeight: pageHeight,
			Borderless: p.Borderless,
			Scaling:    scaling,
		})
		if err != nil {
			return err
		}
		defer img.Close()
		renderer = img
	default:
		return fmt.Errorf("unsupported input format %q", contentType)
	}

	out, closer, err := openOutput(deviceURI, outputFile)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)

	fmt.Fprintf(os.Stderr, "ATTR: job-impressions=%d\n", pages)
	fmt.Fprintf(os.Stderr, "ATTR: job-pages=%d\n", pages)
	if p.Header.Duplex {
		fmt.Fprintf(os.Stderr, "ATTR: job-media-sheets=%d\n", (pages+1)/2)
	} else {
		fmt.Fprintf(os.Stderr, "ATTR: job-media-sheets=%d\n", pages)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "DEBUG: cupsPageSize=[%g %g]\n", pageWidth, pageHeight)
		fmt.Fprintf(os.Stderr, "DEBUG: cupsWidth=%d cupsHeight=%d\n",
			p.Header.CUPSWidth, p.Header.CUPSHeight)
	}

	cfg := &printraster.Config{
		MaxBandBytes: maxBandBytes(),
		FirstPage:    firstPage,
		Progress:     progressReporter(),
	}
	if err := printraster.Transform(w, p, renderer, cfg); err != nil {
		if closer != nil {
			closer.Close()
		}
		return err
	}

	if err := w.Flush(); err != nil {
		return err
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

// envOptions loads job options from IPP_xxx environment variables, the
// way the print scheduler passes them: IPP_MEDIA_COL becomes the
// "media-col" option, IPP_SIDES_DEFAULT becomes "sides-default".
func envOptions() printraster.Options {
	opts := printraster.Options{}
	for _, kv := range os.Environ() {
		name, value, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(name, "IPP_") {
			continue
		}
		name = strings.ToLower(strings.TrimPrefix(name, "IPP_"))
		opts.Set(strings.ReplaceAll(name, "_", "-"), value)
	}
	return opts
}

// jobOptions merges the environment options with the options from the
// -o command line argument.  Command line options take precedence.
func jobOptions(optionList string) (printraster.Options, error) {
	opts := envOptions()
	cmdOpts, err := printraster.ParseOptions(optionList)
	if err != nil {
		return nil, err
	}
	for name, value := range cmdOpts {
		opts.Set(name, value)
	}
	return opts, nil
}

// progressReporter returns a callback which writes the running page
// counters in the form expected by the print scheduler.
func progressReporter() func(impressions, sheets int) {
	lastSheets := 0
	return func(impressions, sheets int) {
		fmt.Fprintf(os.Stderr, "ATTR: job-impressions-completed=%d\n", impressions)
		if sheets != lastSheets {
			fmt.Fprintf(os.Stderr, "ATTR: job-media-sheets-completed=%d\n", sheets)
			lastSheets = sheets
		}
	}
}

// detectType determines the input MIME type from the file name
// extension, falling back to the file's magic bytes.
func detectType(filename string) (string, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf", nil
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg", nil
	case strings.HasSuffix(lower, ".png"):
		return "image/png", nil
	}

	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()
	var magic [8]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return "", fmt.Errorf("unknown format for %q, use the -i option", filename)
	}
	switch {
	case string(magic[:5]) == "%PDF-":
		return "application/pdf", nil
	case magic[0] == 0xff && magic[1] == 0xd8 && magic[2] == 0xff:
		return "image/jpeg", nil
	case string(magic[:]) == "\x89PNG\r\n\x1a\n":
		return "image/png", nil
	}
	return "", fmt.Errorf("unknown format for %q, use the -i option", filename)
}

// pageRange evaluates the "page-ranges" option against the document
// page count.
func pageRange(opts printraster.Options, numPages int) (first, last int, err error) {
	first, last = 1, numPages

	value := opts.Get("page-ranges")
	if value == "" {
		return first, last, nil
	}

	lo, hi, ok := strings.Cut(value, "-")
	first, err = strconv.Atoi(lo)
	if err == nil && ok {
		last, err = strconv.Atoi(hi)
	} else if err == nil {
		last = first
	}
	if err != nil || first < 1 || last < first {
		return 0, 0, fmt.Errorf("invalid page-ranges value %q", value)
	}
	if first > numPages {
		return 0, 0, fmt.Errorf("page-ranges %q starts after the last page", value)
	}
	if last > numPages {
		last = numPages
	}
	return first, last, nil
}

// openOutput opens the destination for the generated data: a socket
// device, a file, or standard output.
func openOutput(deviceURI, outputFile string) (io.Writer, io.Closer, error) {
	if deviceURI != "" {
		u, err := url.Parse(deviceURI)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid device URI %q: %w", deviceURI, err)
		}
		if u.Scheme != "socket" {
			return nil, nil, fmt.Errorf("unsupported device URI scheme %q", u.Scheme)
		}
		host := u.Host
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), "9100")
		}
		conn, err := net.Dial("tcp", host)
		if err != nil {
			return nil, nil, err
		}
		return conn, conn, nil
	}

	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	}

	return os.Stdout, nil, nil
}

// maxBandBytes reads the band buffer ceiling from the environment.
func maxBandBytes() int {
	if s := os.Getenv("IPPTRANSFORM_MAX_RASTER"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 0
}
