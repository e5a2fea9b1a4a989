package kernel

import (
	"fmt"
	"strings"
)

// Source generates the OCCA device source for one solver family (nvecs
// momentum components) with the adiabatic index compiled in. The source is
// compiled exactly once per library; launches are addressed by kernel name
// and iteration shape.
func Source(nvecs int, gamma float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#define NVECS %d\n", nvecs))
	sb.WriteString(fmt.Sprintf("#define NCONS %d\n", nvecs+2))
	sb.WriteString(fmt.Sprintf("#define GAMMA_LAW_INDEX %.16e\n", gamma))
	sb.WriteString(deviceFunctions)
	switch nvecs {
	case 1:
		sb.WriteString(kernels1d)
	case 2:
		sb.WriteString(kernels2d)
	default:
		panic(fmt.Sprintf("no kernel family with nvecs=%d", nvecs))
	}
	return sb.String()
}

const deviceFunctions = `
#define min2(a, b) ((a) < (b) ? (a) : (b))
#define max2(a, b) ((a) > (b) ? (a) : (b))
#define min3(a, b, c) min2(a, min2(b, c))
#define max3(a, b, c) max2(a, max2(b, c))

#define RHO 0
#define PRE (NCONS - 1)
#define DEN 0
#define NRG (NCONS - 1)

inline void prim_to_cons(const double *p, double *u)
{
    double uu = 0.0;
    for (int n = 0; n < NVECS; ++n)
    {
        uu += p[1 + n] * p[1 + n];
    }
    double rho = p[RHO];
    double pre = p[PRE];
    double w = sqrt(1.0 + uu);
    double h = 1.0 + pre / rho * (1.0 + 1.0 / (GAMMA_LAW_INDEX - 1.0));
    double m = rho * w;
    u[DEN] = m;
    for (int n = 0; n < NVECS; ++n)
    {
        u[1 + n] = m * h * p[1 + n];
    }
    u[NRG] = m * (h * w - 1.0) - pre;
}

inline int cons_to_prim(const double *u, double *p)
{
    double gm = GAMMA_LAW_INDEX;
    double m = u[DEN];
    double tau = u[NRG];
    double pre = p[PRE];
    double ss = 0.0;
    double w0 = 1.0;

    if (m < 0.0) return 1;
    if (tau < 0.0) return 2;
    for (int n = 0; n < NVECS; ++n)
    {
        ss += u[1 + n] * u[1 + n];
    }
    if (pre <= 0.0 || pre != pre)
    {
        pre = fabs(tau - m) + 1e-12;
    }
    int converged = 0;
    for (int iteration = 0; iteration <= 50; ++iteration)
    {
        double et = tau + pre + m;
        double b2 = min2(ss / (et * et), 1.0 - 1e-10);
        double w2 = 1.0 / (1.0 - b2);
        double w = sqrt(w2);
        double e = (tau + m * (1.0 - w) + pre * (1.0 - w2)) / (m * w);
        double rho = m / w;
        double h = 1.0 + e + pre / rho;
        double a2 = gm * pre / (rho * h);
        double f = rho * e * (gm - 1.0) - pre;
        double g = b2 * a2 - 1.0;

        double next = pre - f / g;
        if (next <= 0.0)
        {
            next = 0.5 * pre;
        }
        pre = next;

        if (fabs(f) < 1e-12)
        {
            w0 = w;
            converged = 1;
            break;
        }
    }
    if (!converged)
    {
        return 4;
    }
    p[RHO] = m / w0;
    p[PRE] = pre;
    for (int n = 0; n < NVECS; ++n)
    {
        p[1 + n] = w0 * u[1 + n] / (tau + m + pre);
    }
    if (pre < 0.0) return 3;
    return 0;
}

inline void prim_and_cons_to_flux(const double *p, const double *u, double *f, int direction)
{
    double uu = 0.0;
    for (int n = 0; n < NVECS; ++n)
    {
        uu += p[1 + n] * p[1 + n];
    }
    double pre = p[PRE];
    double w = sqrt(1.0 + uu);
    double vn = p[direction] / w;

    f[DEN] = vn * u[DEN];
    for (int n = 0; n < NVECS; ++n)
    {
        f[1 + n] = vn * u[1 + n] + pre * (n + 1 == direction);
    }
    f[NRG] = vn * u[NRG] + pre * vn;
}

inline double sound_speed_squared(const double *p)
{
    double rho = p[RHO];
    double pre = p[PRE];
    double rhoh = rho + pre * (1.0 + 1.0 / (GAMMA_LAW_INDEX - 1.0));
    return pre / rhoh * GAMMA_LAW_INDEX;
}

inline void outer_wavespeeds(const double *p, double *wavespeeds, int direction)
{
    double uu = 0.0;
    for (int n = 0; n < NVECS; ++n)
    {
        uu += p[1 + n] * p[1 + n];
    }
    double w = sqrt(1.0 + uu);
    double vn = p[direction] / w;
    double a2 = sound_speed_squared(p);
    double vv = uu / (1.0 + uu);
    double v2 = vn * vn;
    double k0 = sqrt(a2 * (1.0 - vv) * (1.0 - vv * a2 - v2 * (1.0 - a2)));

    wavespeeds[0] = (vn * (1.0 - a2) - k0) / (1.0 - vv * a2);
    wavespeeds[1] = (vn * (1.0 - a2) + k0) / (1.0 - vv * a2);
}

inline void riemann_hlle(const double *pl, const double *pr, double *flux, int direction, double vface)
{
    double ul[NCONS];
    double ur[NCONS];
    double fl[NCONS];
    double fr[NCONS];
    double al[2];
    double ar[2];

    prim_to_cons(pl, ul);
    prim_to_cons(pr, ur);
    prim_and_cons_to_flux(pl, ul, fl, direction);
    prim_and_cons_to_flux(pr, ur, fr, direction);
    outer_wavespeeds(pl, al, direction);
    outer_wavespeeds(pr, ar, direction);

    double am = min2(0.0, min2(al[0], ar[0]) - vface);
    double ap = max2(0.0, max2(al[1], ar[1]) - vface);

    for (int q = 0; q < NCONS; ++q)
    {
        double flq = fl[q] - vface * ul[q];
        double frq = fr[q] - vface * ur[q];
        flux[q] = (flq * ap - frq * am - (ul[q] - ur[q]) * ap * am) / (ap - am);
    }
}

inline double plm_minmod(double yl, double yc, double yr, double plm_theta)
{
    double a = (yc - yl) * plm_theta;
    double b = (yr - yl) * 0.5;
    double c = (yr - yc) * plm_theta;
    double sa = copysign(1.0, a);
    double sb = copysign(1.0, b);
    double sc = copysign(1.0, c);
    double mab = min3(fabs(a), fabs(b), fabs(c));
    return 0.25 * fabs(sa + sb) * (sa + sc) * mab;
}
`

const kernels1d = `
@kernel void srhd_1d_primitive_to_conserved(
    const double *p,
    double *u,
    const double vol_scale,
    const int ncells)
{
    for (int i = 0; i < ncells; ++i; @tile(64, @outer, @inner))
    {
        prim_to_cons(&p[NCONS * i], &u[NCONS * i]);
        for (int q = 0; q < NCONS; ++q)
        {
            u[NCONS * i + q] *= vol_scale;
        }
    }
}

@kernel void srhd_1d_conserved_to_primitive(
    const double *u,
    double *p,
    int *status,
    const double vol_scale,
    const int ncells)
{
    for (int i = 0; i < ncells; ++i; @tile(64, @outer, @inner))
    {
        double uloc[NCONS];
        for (int q = 0; q < NCONS; ++q)
        {
            uloc[q] = u[NCONS * i + q] / vol_scale;
        }
        status[i] = cons_to_prim(uloc, &p[NCONS * i]);
    }
}

@kernel void srhd_1d_advance_rk(
    const double *faces,
    const double *urk,
    const double *prd,
    const double *urd,
    double *uwr,
    const int ng,
    const int coords,
    const double a0,
    const double adot,
    const double time,
    const double rk_param,
    const double dt,
    const double plm_theta,
    const int ni)
{
    for (int k = 0; k < ni; ++k; @tile(64, @outer, @inner))
    {
        int i = k + ng;
        double a = a0 + adot * time;
        double xl = faces[k];
        double xr = faces[k + 1];

        double gl[NCONS];
        double gc[NCONS];
        double gr[NCONS];
        double pf[NCONS];
        double qf[NCONS];
        double fm[NCONS];
        double fp[NCONS];

        for (int q = 0; q < NCONS; ++q)
        {
            gl[q] = plm_minmod(prd[NCONS * (i - 2) + q], prd[NCONS * (i - 1) + q], prd[NCONS * i + q], plm_theta);
            gc[q] = plm_minmod(prd[NCONS * (i - 1) + q], prd[NCONS * i + q], prd[NCONS * (i + 1) + q], plm_theta);
            gr[q] = plm_minmod(prd[NCONS * i + q], prd[NCONS * (i + 1) + q], prd[NCONS * (i + 2) + q], plm_theta);
        }
        for (int q = 0; q < NCONS; ++q)
        {
            pf[q] = prd[NCONS * (i - 1) + q] + 0.5 * gl[q];
            qf[q] = prd[NCONS * i + q] - 0.5 * gc[q];
        }
        riemann_hlle(pf, qf, fm, 1, adot * xl);
        for (int q = 0; q < NCONS; ++q)
        {
            pf[q] = prd[NCONS * i + q] + 0.5 * gc[q];
            qf[q] = prd[NCONS * (i + 1) + q] - 0.5 * gr[q];
        }
        riemann_hlle(pf, qf, fp, 1, adot * xr);

        double dv;
        double am;
        double ap;
        double src = 0.0;
        if (coords == 0)
        {
            dv = xr - xl;
            am = 1.0;
            ap = 1.0;
        }
        else
        {
            dv = (xr * xr * xr - xl * xl * xl) / 3.0;
            am = a * a * xl * xl;
            ap = a * a * xr * xr;
            src = prd[NCONS * i + PRE] * a * a * (xr * xr - xl * xl) / dv;
        }
        for (int q = 0; q < NCONS; ++q)
        {
            double du = -(fp[q] * ap - fm[q] * am) / dv;
            if (q == 1)
            {
                du += src;
            }
            int n = NCONS * i + q;
            uwr[n] = urk[n] * rk_param + (urd[n] + dt * du) * (1.0 - rk_param);
        }
    }
}

@kernel void srhd_1d_max_wavespeeds(
    const double *faces,
    const double *p,
    double *wavespeeds,
    const int ng,
    const double adot,
    const int ni)
{
    for (int k = 0; k < ni; ++k; @tile(64, @outer, @inner))
    {
        int i = k + ng;
        double ai[2];
        double w = adot * 0.5 * (faces[k] + faces[k + 1]);
        outer_wavespeeds(&p[NCONS * i], ai, 1);
        wavespeeds[k] = max2(fabs(ai[0] - w), fabs(ai[1] - w));
    }
}
`

const kernels2d = `
inline void load_polar(const double *p, int nj, int i, int j, double *out)
{
    int jm = j;
    double flip = 1.0;
    if (j < 0)
    {
        jm = -1 - j;
        flip = -1.0;
    }
    else if (j >= nj)
    {
        jm = 2 * nj - 1 - j;
        flip = -1.0;
    }
    for (int q = 0; q < NCONS; ++q)
    {
        out[q] = p[NCONS * (i * nj + jm) + q];
    }
    out[2] *= flip;
}

inline void polar_slopes(const double *p, int nj, int i, int j, double plm_theta, double *g)
{
    double yl[NCONS];
    double yc[NCONS];
    double yr[NCONS];
    load_polar(p, nj, i, j - 1, yl);
    load_polar(p, nj, i, j, yc);
    load_polar(p, nj, i, j + 1, yr);
    for (int q = 0; q < NCONS; ++q)
    {
        g[q] = plm_minmod(yl[q], yc[q], yr[q], plm_theta);
    }
}

@kernel void srhd_2d_primitive_to_conserved(
    const double *p,
    double *u,
    const double vol_scale,
    const int ncells)
{
    for (int i = 0; i < ncells; ++i; @tile(64, @outer, @inner))
    {
        prim_to_cons(&p[NCONS * i], &u[NCONS * i]);
        for (int q = 0; q < NCONS; ++q)
        {
            u[NCONS * i + q] *= vol_scale;
        }
    }
}

@kernel void srhd_2d_conserved_to_primitive(
    const double *u,
    double *p,
    int *status,
    const double vol_scale,
    const int ncells)
{
    for (int i = 0; i < ncells; ++i; @tile(64, @outer, @inner))
    {
        double uloc[NCONS];
        for (int q = 0; q < NCONS; ++q)
        {
            uloc[q] = u[NCONS * i + q] / vol_scale;
        }
        status[i] = cons_to_prim(uloc, &p[NCONS * i]);
    }
}

@kernel void srhd_2d_advance_rk(
    const double *faces,
    const double *urk,
    const double *prd,
    const double *urd,
    double *uwr,
    const int ng,
    const double polar_extent,
    const double a0,
    const double adot,
    const double time,
    const double rk_param,
    const double dt,
    const double plm_theta,
    const int ni,
    const int nj)
{
    for (int k = 0; k < ni; ++k; @outer)
    {
        for (int j = 0; j < nj; ++j; @inner)
        {
            int i = k + ng;
            double a = a0 + adot * time;
            double dq = polar_extent / nj;
            double xl = faces[k];
            double xr = faces[k + 1];
            double q0 = dq * j;
            double q1 = dq * (j + 1);

            double gl[NCONS];
            double gc[NCONS];
            double gr[NCONS];
            double pf[NCONS];
            double qf[NCONS];
            double fm[NCONS];
            double fp[NCONS];
            double gm[NCONS];
            double gp[NCONS];

            const double *pc = &prd[NCONS * (i * nj + j)];

            for (int q = 0; q < NCONS; ++q)
            {
                gl[q] = plm_minmod(prd[NCONS * ((i - 2) * nj + j) + q], prd[NCONS * ((i - 1) * nj + j) + q], pc[q], plm_theta);
                gc[q] = plm_minmod(prd[NCONS * ((i - 1) * nj + j) + q], pc[q], prd[NCONS * ((i + 1) * nj + j) + q], plm_theta);
                gr[q] = plm_minmod(pc[q], prd[NCONS * ((i + 1) * nj + j) + q], prd[NCONS * ((i + 2) * nj + j) + q], plm_theta);
            }
            for (int q = 0; q < NCONS; ++q)
            {
                pf[q] = prd[NCONS * ((i - 1) * nj + j) + q] + 0.5 * gl[q];
                qf[q] = pc[q] - 0.5 * gc[q];
            }
            riemann_hlle(pf, qf, fm, 1, adot * xl);
            for (int q = 0; q < NCONS; ++q)
            {
                pf[q] = pc[q] + 0.5 * gc[q];
                qf[q] = prd[NCONS * ((i + 1) * nj + j) + q] - 0.5 * gr[q];
            }
            riemann_hlle(pf, qf, fp, 1, adot * xr);

            double yl[NCONS];
            double yr[NCONS];
            polar_slopes(prd, nj, i, j - 1, plm_theta, gl);
            polar_slopes(prd, nj, i, j, plm_theta, gc);
            polar_slopes(prd, nj, i, j + 1, plm_theta, gr);
            load_polar(prd, nj, i, j - 1, yl);
            load_polar(prd, nj, i, j + 1, yr);
            for (int q = 0; q < NCONS; ++q)
            {
                pf[q] = yl[q] + 0.5 * gl[q];
                qf[q] = pc[q] - 0.5 * gc[q];
            }
            riemann_hlle(pf, qf, gm, 2, 0.0);
            for (int q = 0; q < NCONS; ++q)
            {
                pf[q] = pc[q] + 0.5 * gc[q];
                qf[q] = yr[q] - 0.5 * gr[q];
            }
            riemann_hlle(pf, qf, gp, 2, 0.0);

            double dmu = cos(q0) - cos(q1);
            double dv = (xr * xr * xr - xl * xl * xl) / 3.0 * dmu;
            double arm = a * a * xl * xl * dmu;
            double arp = a * a * xr * xr * dmu;
            double aqm = a * a * sin(q0) * (xr * xr - xl * xl) / 2.0;
            double aqp = a * a * sin(q1) * (xr * xr - xl * xl) / 2.0;

            double rho = pc[0];
            double ur = pc[1];
            double uq = pc[2];
            double pre = pc[3];
            double h = 1.0 + pre / rho * (1.0 + 1.0 / (GAMMA_LAW_INDEX - 1.0));
            double ivr = a * a * (xr * xr - xl * xl) / 2.0;
            double src_r = pre * (arp - arm) + rho * h * uq * uq * ivr * dmu;
            double src_q = pre * (aqp - aqm) - rho * h * ur * uq * ivr * dmu;

            for (int q = 0; q < NCONS; ++q)
            {
                double du = -(fp[q] * arp - fm[q] * arm + gp[q] * aqp - gm[q] * aqm);
                if (q == 1)
                {
                    du += src_r;
                }
                if (q == 2)
                {
                    du += src_q;
                }
                du /= dv;
                int n = NCONS * (i * nj + j) + q;
                uwr[n] = urk[n] * rk_param + (urd[n] + dt * du) * (1.0 - rk_param);
            }
        }
    }
}

@kernel void srhd_2d_max_wavespeeds(
    const double *faces,
    const double *p,
    double *wavespeeds,
    const int ng,
    const double adot,
    const int ni,
    const int nj)
{
    for (int k = 0; k < ni; ++k; @outer)
    {
        for (int j = 0; j < nj; ++j; @inner)
        {
            int i = k + ng;
            double ai[2];
            double aj[2];
            double w = adot * 0.5 * (faces[k] + faces[k + 1]);
            outer_wavespeeds(&p[NCONS * (i * nj + j)], ai, 1);
            outer_wavespeeds(&p[NCONS * (i * nj + j)], aj, 2);
            double s = max2(fabs(ai[0] - w), fabs(ai[1] - w));
            wavespeeds[k * nj + j] = max2(s, max2(fabs(aj[0]), fabs(aj[1])));
        }
    }
}
`
