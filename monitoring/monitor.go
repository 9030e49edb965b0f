// Package monitoring exposes a running kernel as a read-only HTTP
// status server.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/minoslab/minos/kernel"
	"github.com/minoslab/minos/proc"
)

// Monitor turns a kernel into a server and allows external inspection
// of its state.
type Monitor struct {
	kernel     *kernel.Kernel
	portNumber int
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterKernel registers the kernel to be monitored.
func (m *Monitor) RegisterKernel(k *kernel.Kernel) {
	m.kernel = k
}

// StartServer starts the monitor as a web server and returns the URL it
// listens on.
func (m *Monitor) StartServer() string {
	r := m.router()
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring kernel with %s\n", url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	return url
}

// StartDashboard starts the server and opens it in the default browser.
func (m *Monitor) StartDashboard() {
	url := m.StartServer()

	err := browser.OpenURL(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
	}
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/info", m.systemInfo)
	r.HandleFunc("/api/processes", m.listProcesses)
	r.HandleFunc("/api/process/{pid}", m.processDetails)
	r.HandleFunc("/api/process/{pid}/history", m.processHistory)
	r.HandleFunc("/api/process/{pid}/transitions", m.processTransitions)
	r.HandleFunc("/api/running", m.runningProcess)
	r.HandleFunc("/api/memory", m.memoryStatus)
	r.HandleFunc("/api/vm", m.vmStatus)
	r.HandleFunc("/api/tlb", m.tlbStatus)
	r.HandleFunc("/api/devices", m.deviceStatus)
	r.HandleFunc("/api/timeline", m.timeline)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.HandleFunc("/api/state", m.kernelState)

	return r
}

func (m *Monitor) systemInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.kernel.SystemInfo())
}

func (m *Monitor) listProcesses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.kernel.Processes())
}

func (m *Monitor) processDetails(w http.ResponseWriter, r *http.Request) {
	pid, ok := m.findProcessOr404(w, r)
	if !ok {
		return
	}

	p, _ := m.kernel.FindProcess(pid)
	writeJSON(w, p)
}

func (m *Monitor) processHistory(w http.ResponseWriter, r *http.Request) {
	pid, ok := m.findProcessOr404(w, r)
	if !ok {
		return
	}

	history, _ := m.kernel.ProcessHistory(pid)
	writeJSON(w, history)
}

func (m *Monitor) processTransitions(
	w http.ResponseWriter,
	r *http.Request,
) {
	pid, ok := m.findProcessOr404(w, r)
	if !ok {
		return
	}

	transitions, _ := m.kernel.ProcessTransitions(pid)
	writeJSON(w, transitions)
}

func (m *Monitor) runningProcess(w http.ResponseWriter, _ *http.Request) {
	running, found := m.kernel.RunningProcess()
	if !found {
		writeJSON(w, nil)
		return
	}

	writeJSON(w, running)
}

func (m *Monitor) memoryStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.kernel.MemoryStatus())
}

func (m *Monitor) vmStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.kernel.VMStatus())
}

func (m *Monitor) tlbStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.kernel.TLBStatus())
}

func (m *Monitor) deviceStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.kernel.DeviceStatus())
}

func (m *Monitor) timeline(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		limitStr = "0"
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	writeJSON(w, m.kernel.Timeline(limit))
}

func (m *Monitor) findProcessOr404(
	w http.ResponseWriter,
	r *http.Request,
) (proc.PID, bool) {
	pidNumber, err := strconv.Atoi(mux.Vars(r)["pid"])
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_, err = w.Write([]byte("Process not found"))
		dieOnErr(err)

		return 0, false
	}

	pid := proc.PID(pidNumber)

	_, found := m.kernel.FindProcess(pid)
	if !found {
		w.WriteHeader(http.StatusNotFound)
		_, err = w.Write([]byte("Process not found"))
		dieOnErr(err)

		return 0, false
	}

	return pid, true
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	writeJSON(w, rsp)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func (m *Monitor) kernelState(w http.ResponseWriter, _ *http.Request) {
	err := m.kernel.SerializeState(w)
	dieOnErr(err)
}

func writeJSON(w http.ResponseWriter, v any) {
	rsp, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(rsp)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
