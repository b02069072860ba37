package gtfs

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// tables consumed by the loader, in load order
var tables = []string{
	"calendar_dates.txt",
	"truck_routes.txt",
	"truck_stops.txt",
	"truck_stop_times.txt",
	"truck_trips.txt",
}

// ErrMissingTable is returned when a required table is absent from the feed
var ErrMissingTable = errors.New("missing gtfs table")

func isRequired(name string) bool {
	return name == "truck_routes.txt" || name == "truck_trips.txt"
}

func isTable(name string) bool {
	for _, t := range tables {
		if name == t {
			return true
		}
	}
	return false
}

// Load builds an index from a directory of .txt tables, a local zip file or
// an http(s) URL serving a zip.
func Load(ctx context.Context, source string) (*GTFSIndex, error) {
	g := NewGTFSIndex()
	var err error
	switch {
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		var data []byte
		if data, err = fetch(ctx, http.DefaultClient, source); err == nil {
			err = g.loadFromZipBytes(data)
		}
	default:
		var fi os.FileInfo
		if fi, err = os.Stat(source); err != nil {
			return nil, err
		}
		if fi.IsDir() {
			err = g.loadFromDir(source)
		} else {
			err = g.loadFromLocalZip(source)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("loading gtfs from %s: %w", source, err)
	}
	g.finish()
	return g, nil
}

// NewGTFSIndexFromBytes creates an index from raw zip bytes
func NewGTFSIndexFromBytes(data []byte) (*GTFSIndex, error) {
	g := NewGTFSIndex()
	if err := g.loadFromZipBytes(data); err != nil {
		return nil, err
	}
	g.finish()
	return g, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

func (g *GTFSIndex) loadFromZipBytes(data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	return g.consumeZip(zr.File)
}

// loadFromLocalZip opens a local GTFS zip file and consumes required CSVs.
func (g *GTFSIndex) loadFromLocalZip(path string) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer zr.Close()
	return g.consumeZip(zr.File)
}

func (g *GTFSIndex) consumeZip(files []*zip.File) error {
	byName := map[string]*zip.File{}
	for _, f := range files {
		byName[strings.ToLower(filepath.Base(f.Name))] = f
	}
	for _, name := range tables {
		f, ok := byName[name]
		if !ok {
			if isRequired(name) {
				return fmt.Errorf("%s: %w", name, ErrMissingTable)
			}
			continue
		}
		r, err := f.Open()
		if err != nil {
			return err
		}
		err = g.consumeCSV(name, r)
		r.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *GTFSIndex) loadFromDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	present := map[string]string{}
	for _, e := range entries {
		if name := strings.ToLower(e.Name()); !e.IsDir() && isTable(name) {
			present[name] = filepath.Join(dir, e.Name())
		}
	}
	for _, name := range tables {
		path, ok := present[name]
		if !ok {
			if isRequired(name) {
				return fmt.Errorf("%s: %w", name, ErrMissingTable)
			}
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = g.consumeCSV(name, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *GTFSIndex) consumeCSV(name string, r io.Reader) error {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if len(rec) == 0 {
		return nil
	}
	head := rec[0]
	idx := func(col string) int {
		for i, h := range head {
			if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), col) {
				return i
			}
		}
		return -1
	}
	cell := func(row []string, i int) string {
		if i >= 0 && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}
	switch name {
	case "truck_routes.txt":
		rID, rType, rName, rColor := idx("route_id"), idx("route_type"), idx("route_name"), idx("route_color")
		if rID < 0 {
			return fmt.Errorf("%s: missing route_id column", name)
		}
		for _, row := range rec[1:] {
			id := cell(row, rID)
			g.Routes[id] = Route{
				RouteID:    id,
				RouteType:  atoi(cell(row, rType)),
				RouteName:  cell(row, rName),
				RouteColor: cell(row, rColor),
			}
		}
	case "truck_trips.txt":
		rID, tID, hs, svc, po := idx("route_id"), idx("trip_id"), idx("trip_headsign"), idx("service_id"), idx("po_number")
		if tID < 0 {
			return fmt.Errorf("%s: missing trip_id column", name)
		}
		for _, row := range rec[1:] {
			id := cell(row, tID)
			if _, seen := g.Trips[id]; !seen {
				g.TripOrder = append(g.TripOrder, id)
			}
			g.Trips[id] = Trip{
				TripID:       id,
				RouteID:      cell(row, rID),
				TripHeadsign: cell(row, hs),
				ServiceID:    cell(row, svc),
				PONumber:     cell(row, po),
			}
		}
	case "truck_stops.txt":
		sID, sName, sLat, sLon, lt := idx("stop_id"), idx("stop_name"), idx("stop_lat"), idx("stop_lon"), idx("location_type")
		if sID < 0 {
			return fmt.Errorf("%s: missing stop_id column", name)
		}
		for _, row := range rec[1:] {
			id := cell(row, sID)
			lat, _ := strconv.ParseFloat(cell(row, sLat), 64)
			lon, _ := strconv.ParseFloat(cell(row, sLon), 64)
			if _, seen := g.Stops[id]; !seen {
				g.StopOrder = append(g.StopOrder, id)
			}
			g.Stops[id] = Stop{StopID: id, StopName: cell(row, sName), Lat: lat, Lon: lon, LocationType: atoi(cell(row, lt))}
		}
	case "truck_stop_times.txt":
		tID, arr, dep, sID, seq := idx("trip_id"), idx("arrival_time"), idx("departure_time"), idx("stop_id"), idx("stop_sequence")
		if tID < 0 || sID < 0 {
			return fmt.Errorf("%s: missing trip_id or stop_id column", name)
		}
		for _, row := range rec[1:] {
			trip := cell(row, tID)
			g.StopTimes[trip] = append(g.StopTimes[trip], StopTime{
				TripID:        trip,
				ArrivalTime:   cell(row, arr),
				DepartureTime: cell(row, dep),
				StopID:        cell(row, sID),
				StopSequence:  atoi(cell(row, seq)),
			})
		}
	case "calendar_dates.txt":
		svc, date, ex := idx("service_id"), idx("date"), idx("exception_type")
		for _, row := range rec[1:] {
			g.CalendarDates = append(g.CalendarDates, CalendarDate{
				ServiceID:     cell(row, svc),
				Date:          atoi(cell(row, date)),
				ExceptionType: atoi(cell(row, ex)),
			})
		}
	}
	return nil
}

// finish orders each trip's stop times by stop_sequence
func (g *GTFSIndex) finish() {
	for _, arr := range g.StopTimes {
		sort.SliceStable(arr, func(i, j int) bool { return arr[i].StopSequence < arr[j].StopSequence })
	}
}
