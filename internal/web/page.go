package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>pipwatch</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; background: #0f1419; color: #e6e6e6; margin: 0; padding: 24px; }
  h1 { font-size: 20px; margin: 0 0 16px; color: #7ee787; }
  .summary { display: flex; gap: 24px; margin-bottom: 24px; }
  .card { background: #161b22; border: 1px solid #30363d; border-radius: 8px; padding: 12px 20px; }
  .card .label { font-size: 12px; color: #8b949e; text-transform: uppercase; }
  .card .value { font-size: 22px; margin-top: 4px; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: 6px 12px; border-bottom: 1px solid #30363d; font-size: 14px; }
  th { color: #8b949e; font-weight: 500; }
  .buy { color: #7ee787; }
  .sell { color: #ff7b72; }
</style>
</head>
<body>
<h1>pipwatch signals</h1>
<div class="summary">
  <div class="card"><div class="label">Total</div><div class="value" id="total">0</div></div>
  <div class="card"><div class="label">Win rate</div><div class="value" id="winrate">0</div></div>
  <div class="card"><div class="label">Net pnl</div><div class="value" id="netpnl">0</div></div>
</div>
<table>
  <thead><tr><th>Time</th><th>Symbol</th><th>Side</th><th>Entry</th><th>Stop</th><th>Target</th><th>R:R</th><th>Status</th><th>Pnl</th></tr></thead>
  <tbody id="rows"></tbody>
</table>
<script>
async function refreshMetrics() {
  try {
    const resp = await fetch('/api/metrics');
    const m = await resp.json();
    document.getElementById('total').textContent = m.total;
    document.getElementById('winrate').textContent = m.win_rate + '%';
    document.getElementById('netpnl').textContent = m.net_pnl;
  } catch (e) {}
}
refreshMetrics();
setInterval(refreshMetrics, 5000);

const source = new EventSource('/signals/stream');
source.addEventListener('signal', function(ev) {
  const s = JSON.parse(ev.data);
  const row = document.createElement('tr');
  row.innerHTML =
    '<td>' + new Date(s.created_at).toLocaleString() + '</td>' +
    '<td>' + s.symbol + '</td>' +
    '<td class="' + s.direction + '">' + s.direction + '</td>' +
    '<td>' + s.entry + '</td>' +
    '<td>' + s.stop_loss + '</td>' +
    '<td>' + s.take_profit + '</td>' +
    '<td>' + s.reward_risk + '</td>' +
    '<td>' + s.status + '</td>' +
    '<td>' + s.pnl + '</td>';
  document.getElementById('rows').prepend(row);
});
</script>
</body>
</html>`
